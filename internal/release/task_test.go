package release

import (
	"testing"

	"github.com/wrenware/relver/internal/semver"
)

func TestTaskLabels(t *testing.T) {
	tests := []struct {
		task Task
		want string
	}{
		{Task{Kind: TaskDisplayVersion, Package: "app"}, "Print Version: app"},
		{Task{Kind: TaskDisplayTree}, "Display Workspace Tree"},
		{Task{Kind: TaskSetVersion, Package: "app", NewVersion: semver.MustParse("2.0.0")}, "Set Version: app -> 2.0.0"},
		{Task{Kind: TaskSetWorkspaceVersion, NewVersion: semver.MustParse("2.0.0")}, "Set Workspace Version: 2.0.0"},
		{Task{Kind: TaskBumpVersion, Bump: semver.BumpMinor, Package: "app", NewVersion: semver.MustParse("1.3.0")}, "Bump minor: app -> 1.3.0"},
		{Task{Kind: TaskBumpWorkspaceVersion, Bump: semver.BumpPatch, NewVersion: semver.MustParse("0.1.1")}, "Bump Workspace patch: 0.1.1"},
		{Task{Kind: TaskWriteManifest, Package: "app"}, "Write Manifest: app"},
		{Task{Kind: TaskGitStash, Stash: StashSave}, "Git Stash"},
		{Task{Kind: TaskGitStash, Stash: StashRestore}, "Git Stash Pop"},
		{Task{Kind: TaskGitSwitchBranch, FromBranch: "main", ToBranch: "release"}, "Git Switch Branch: main -> release"},
		{Task{Kind: TaskGitAdd, Paths: []string{"a", "b"}}, "Git Add: [a, b]"},
		{Task{Kind: TaskGitCommit, Message: "1.3.0"}, "Git Commit: 1.3.0"},
		{Task{Kind: TaskGitTag, Tag: "1.3.0"}, "Git Tag: 1.3.0"},
		{Task{Kind: TaskGitDeleteTag, Tag: "1.3.0"}, "Git Delete Tag: 1.3.0"},
		{Task{Kind: TaskGitPush, Remote: "origin", Tag: "1.3.0"}, "Git Push: 1.3.0 to origin"},
		{Task{Kind: TaskRegenerateLockfile}, "Regenerate Lockfile"},
		{Task{Kind: TaskPublish}, "Publish"},
	}

	for _, tt := range tests {
		if got := tt.task.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRunAfterCompleted(t *testing.T) {
	for kind := TaskDisplayVersion; kind <= TaskPublish; kind++ {
		task := Task{Kind: kind}
		want := kind == TaskGitDeleteTag
		if got := task.RunAfterCompleted(); got != want {
			t.Errorf("kind %d RunAfterCompleted = %v, want %v", kind, got, want)
		}
	}
}

func TestSpawns(t *testing.T) {
	for kind := TaskDisplayVersion; kind <= TaskPublish; kind++ {
		task := Task{Kind: kind}
		want := kind == TaskGitPush || kind == TaskPublish
		if got := task.Spawns(); got != want {
			t.Errorf("kind %d Spawns = %v, want %v", kind, got, want)
		}
	}
}

func TestIsVersionChange(t *testing.T) {
	changing := map[TaskKind]bool{
		TaskSetVersion:           true,
		TaskSetWorkspaceVersion:  true,
		TaskBumpVersion:          true,
		TaskBumpWorkspaceVersion: true,
	}
	for kind := TaskDisplayVersion; kind <= TaskPublish; kind++ {
		task := Task{Kind: kind}
		if got := task.IsVersionChange(); got != changing[kind] {
			t.Errorf("kind %d IsVersionChange = %v, want %v", kind, got, changing[kind])
		}
	}
}
