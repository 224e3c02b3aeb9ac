package gitops

import (
	"strings"
	"testing"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/proc"
)

// -----------------------------------------------------------------------------
// Mock Command Executor for Unit Tests
// -----------------------------------------------------------------------------

// mockCall records a single command invocation
type mockCall struct {
	dir  string
	name string
	args []string
}

// mockExecutor is a test double for CommandExecutor
type mockExecutor struct {
	calls      []mockCall
	runOutputs [][]byte
	runErrors  []error
	callIndex  int
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{}
}

func (m *mockExecutor) addResponse(output []byte, err error) {
	m.runOutputs = append(m.runOutputs, output)
	m.runErrors = append(m.runErrors, err)
}

func (m *mockExecutor) next() ([]byte, error) {
	idx := m.callIndex
	m.callIndex++
	if idx < len(m.runOutputs) {
		return m.runOutputs[idx], m.runErrors[idx]
	}
	return nil, nil
}

func (m *mockExecutor) Run(dir string, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{dir: dir, name: name, args: args})
	return m.next()
}

func (m *mockExecutor) RunQuiet(dir string, name string, args ...string) error {
	m.calls = append(m.calls, mockCall{dir: dir, name: name, args: args})
	_, err := m.next()
	return err
}

func (m *mockExecutor) Start(label string, dir string, name string, args ...string) (*proc.Handle, error) {
	m.calls = append(m.calls, mockCall{dir: dir, name: name, args: args})
	_, err := m.next()
	if err != nil {
		return nil, err
	}
	return proc.Completed(label, nil, ""), nil
}

func (m *mockExecutor) lastCall() mockCall {
	if len(m.calls) == 0 {
		return mockCall{}
	}
	return m.calls[len(m.calls)-1]
}

var _ CommandExecutor = (*mockExecutor)(nil)

func newTestGit(exec *mockExecutor) *Git {
	return NewWithExecutor("/repo", exec, nil)
}

// -----------------------------------------------------------------------------
// Git Client Unit Tests
// -----------------------------------------------------------------------------

func TestDirtyFiles(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantLen   int
		wantMode  string
		wantPath  string
		wantDirty bool
	}{
		{"clean repo", "", 0, "", "", false},
		{"modified file", " M Cargo.toml\n", 1, "M", "Cargo.toml", true},
		{"untracked file", "?? newfile.txt\n", 1, "??", "newfile.txt", true},
		{"multiple files", " M a.txt\nA  b.txt\n", 2, "M", "a.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.addResponse([]byte(tt.output), nil)
			git := newTestGit(exec)

			files, err := git.DirtyFiles()
			if err != nil {
				t.Fatalf("DirtyFiles: %v", err)
			}
			if len(files) != tt.wantLen {
				t.Fatalf("len(files) = %d, want %d", len(files), tt.wantLen)
			}
			if tt.wantLen > 0 {
				if files[0].Mode != tt.wantMode {
					t.Errorf("Mode = %q, want %q", files[0].Mode, tt.wantMode)
				}
				if files[0].Path != tt.wantPath {
					t.Errorf("Path = %q, want %q", files[0].Path, tt.wantPath)
				}
			}

			exec2 := newMockExecutor()
			exec2.addResponse([]byte(tt.output), nil)
			dirty, err := newTestGit(exec2).IsDirty()
			if err != nil {
				t.Fatalf("IsDirty: %v", err)
			}
			if dirty != tt.wantDirty {
				t.Errorf("IsDirty = %v, want %v", dirty, tt.wantDirty)
			}
		})
	}
}

func TestCurrentBranch(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse([]byte("main\n"), nil)
	git := newTestGit(exec)

	branch, err := git.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "main" {
		t.Errorf("branch = %q, want main", branch)
	}

	call := exec.lastCall()
	wantArgs := []string{"-C", "/repo", "branch", "--show-current"}
	if strings.Join(call.args, " ") != strings.Join(wantArgs, " ") {
		t.Errorf("args = %v, want %v", call.args, wantArgs)
	}
}

func TestCurrentBranchDetachedHead(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse([]byte("\n"), nil)
	if _, err := newTestGit(exec).CurrentBranch(); err == nil {
		t.Fatal("expected error for detached HEAD")
	}
}

func TestRemotes(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse([]byte("origin\nupstream\nstale\n"), nil)
	exec.addResponse([]byte("  origin/main\n  origin/dev\n  upstream/main\n"), nil)
	git := newTestGit(exec)

	remotes, err := git.Remotes()
	if err != nil {
		t.Fatalf("Remotes: %v", err)
	}
	if len(remotes) != 2 || remotes[0] != "origin" || remotes[1] != "upstream" {
		t.Errorf("remotes = %v, want [origin upstream]", remotes)
	}
}

func TestRemotesEmpty(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse([]byte(""), nil)
	exec.addResponse([]byte(""), nil)

	_, err := newTestGit(exec).Remotes()
	if !errors.Is(err, errors.ErrNoRemotes) {
		t.Errorf("got %v, want ErrNoRemotes", err)
	}
}

func TestCommitDryRun(t *testing.T) {
	exec := newMockExecutor()
	git := newTestGit(exec)

	if err := git.Commit("1.3.0", true); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	args := strings.Join(exec.lastCall().args, " ")
	if !strings.Contains(args, "commit -m 1.3.0 --dry-run") {
		t.Errorf("args = %q, want commit with --dry-run", args)
	}
}

func TestTagAndDelete(t *testing.T) {
	exec := newMockExecutor()
	git := newTestGit(exec)

	if err := git.Tag("1.3.0"); err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if got := strings.Join(exec.lastCall().args, " "); got != "-C /repo tag 1.3.0" {
		t.Errorf("tag args = %q", got)
	}

	if err := git.DeleteTag("1.3.0"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if got := strings.Join(exec.lastCall().args, " "); got != "-C /repo tag --delete 1.3.0" {
		t.Errorf("delete args = %q", got)
	}
}

func TestPushTag(t *testing.T) {
	exec := newMockExecutor()
	git := newTestGit(exec)

	handle, err := git.PushTag("origin", "1.3.0", true)
	if err != nil {
		t.Fatalf("PushTag: %v", err)
	}
	finished, perr := handle.Poll()
	if !finished || perr != nil {
		t.Errorf("mock push handle = (%v, %v), want completed", finished, perr)
	}

	args := strings.Join(exec.lastCall().args, " ")
	for _, want := range []string{"push origin tags/1.3.0", "--porcelain", "--dry-run"} {
		if !strings.Contains(args, want) {
			t.Errorf("push args %q missing %q", args, want)
		}
	}
}

func TestGitErrorContext(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse([]byte("fatal: not a git repository"), errors.New("exit status 128"))

	_, err := newTestGit(exec).DirtyFiles()
	if err == nil {
		t.Fatal("expected error")
	}
	var ge *errors.GitError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GitError, got %T", err)
	}
	if ge.Repository != "/repo" {
		t.Errorf("Repository = %q, want /repo", ge.Repository)
	}
	if !strings.Contains(ge.GitOutput, "not a git repository") {
		t.Errorf("GitOutput = %q", ge.GitOutput)
	}
}

func TestSwitchBranchAndStash(t *testing.T) {
	exec := newMockExecutor()
	git := newTestGit(exec)

	if err := git.SwitchBranch("release"); err != nil {
		t.Fatalf("SwitchBranch: %v", err)
	}
	if got := strings.Join(exec.lastCall().args, " "); got != "-C /repo checkout release" {
		t.Errorf("checkout args = %q", got)
	}

	if err := git.StashPush(); err != nil {
		t.Fatalf("StashPush: %v", err)
	}
	if err := git.StashPop(); err != nil {
		t.Fatalf("StashPop: %v", err)
	}
	if got := strings.Join(exec.lastCall().args, " "); got != "-C /repo stash pop" {
		t.Errorf("stash pop args = %q", got)
	}
}
