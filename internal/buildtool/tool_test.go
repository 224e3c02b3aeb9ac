package buildtool

import (
	"strings"
	"testing"

	"github.com/wrenware/relver/internal/config"
	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/proc"
)

type mockCall struct {
	name string
	args []string
}

type mockExecutor struct {
	calls   []mockCall
	outputs [][]byte
	errs    []error
	idx     int
}

func (m *mockExecutor) next() ([]byte, error) {
	i := m.idx
	m.idx++
	if i < len(m.outputs) {
		return m.outputs[i], m.errs[i]
	}
	return nil, nil
}

func (m *mockExecutor) Run(dir string, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{name: name, args: args})
	return m.next()
}

func (m *mockExecutor) RunQuiet(dir string, name string, args ...string) error {
	m.calls = append(m.calls, mockCall{name: name, args: args})
	_, err := m.next()
	return err
}

func (m *mockExecutor) Start(label string, dir string, name string, args ...string) (*proc.Handle, error) {
	m.calls = append(m.calls, mockCall{name: name, args: args})
	_, err := m.next()
	if err != nil {
		return nil, err
	}
	return proc.Completed(label, nil, ""), nil
}

func TestGenerateLockfile(t *testing.T) {
	exec := &mockExecutor{}
	tool := NewWithExecutor(config.ToolConfig{Bin: "cargo"}, exec, nil)

	if err := tool.GenerateLockfile("/ws/Cargo.toml"); err != nil {
		t.Fatalf("GenerateLockfile: %v", err)
	}
	call := exec.calls[0]
	if call.name != "cargo" {
		t.Errorf("binary = %q, want cargo", call.name)
	}
	want := "generate-lockfile --manifest-path /ws/Cargo.toml"
	if got := strings.Join(call.args, " "); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestGenerateLockfileFailure(t *testing.T) {
	exec := &mockExecutor{
		outputs: [][]byte{[]byte("error: no such subcommand")},
		errs:    []error{errors.New("exit status 101")},
	}
	tool := NewWithExecutor(config.ToolConfig{}, exec, nil)

	err := tool.GenerateLockfile("")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no such subcommand") {
		t.Errorf("error %q should carry tool output", err)
	}
}

func TestPublishArgs(t *testing.T) {
	exec := &mockExecutor{}
	tool := NewWithExecutor(config.ToolConfig{
		Bin:         "cargo",
		NoVerify:    true,
		PublishArgs: []string{"--registry", "internal"},
	}, exec, nil)

	handle, err := tool.Publish(PublishOptions{
		DryRun:       true,
		AllowDirty:   true,
		ManifestPath: "/ws/Cargo.toml",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if finished, _ := handle.Poll(); !finished {
		t.Error("mock handle should be complete")
	}

	args := strings.Join(exec.calls[0].args, " ")
	for _, want := range []string{"publish", "--dry-run", "--manifest-path /ws/Cargo.toml", "--no-verify", "--allow-dirty", "--registry internal"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestDefaultBinary(t *testing.T) {
	exec := &mockExecutor{}
	tool := NewWithExecutor(config.ToolConfig{}, exec, nil)
	if err := tool.GenerateLockfile(""); err != nil {
		t.Fatalf("GenerateLockfile: %v", err)
	}
	if exec.calls[0].name != "cargo" {
		t.Errorf("default binary = %q, want cargo", exec.calls[0].name)
	}
}
