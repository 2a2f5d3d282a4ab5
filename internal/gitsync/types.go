package gitsync

import (
	"context"

	"github.com/alexjbarnes/repo-sync/github"
)

// regularFileMode is the tree-entry mode assigned to every uploaded
// blob. Remote entries that are kept untouched preserve their original
// mode (including 100755 executables).
const regularFileMode = "100644"

// LocalFile is one file from the source directory. Content reads at
// most once per upload attempt through the Read callback, so large
// trees are never held in memory all at once.
type LocalFile struct {
	// Path is repo-relative, POSIX-separated, already normalized.
	Path string

	// Read returns the file's current content.
	Read func() ([]byte, error)
}

// Options configures a single sync run.
type Options struct {
	// Branch is the target branch. Must be non-empty by the time the
	// engine runs (cmd resolves the repository default for blank input).
	Branch string

	// TargetDir is an optional subdirectory prefix inside the
	// repository, already normalized. Empty syncs to the repo root.
	TargetDir string

	// DeleteMissing removes remote files under TargetDir that have no
	// local counterpart. Silently downgraded (with a warning) when the
	// remote listing is truncated.
	DeleteMissing bool

	// BatchSize bounds in-flight blob uploads. Values < 1 fall back to
	// the default.
	BatchSize int

	// Messages generates commit messages from the change lists. Nil or
	// failing generators fall back to the templated message.
	Messages Generator
}

// RepoAPI is the subset of the GitHub client the engine drives.
// Extracted for testability.
type RepoAPI interface {
	GetRepository(ctx context.Context) (*github.Repository, error)
	ResolveBranchHead(ctx context.Context, branch string) (string, error)
	ListTreeRecursive(ctx context.Context, commitSHA string) (*github.TreeListing, error)
	CreateBlob(ctx context.Context, content []byte) (string, error)
	CreateTree(ctx context.Context, entries []github.TreeEntry) (string, error)
	CreateCommit(ctx context.Context, message, treeSHA string, parents []string) (string, error)
	CreateRef(ctx context.Context, branch, commitSHA string) error
	UpdateRef(ctx context.Context, branch, commitSHA string) error
}

// Stage is a phase of the sync state machine. Stages only move forward;
// StageError is terminal and reachable from any non-terminal stage.
type Stage int

const (
	StageIdle Stage = iota
	StageScanning
	StageAnalyzing
	StageUploading
	StageCommitting
	StageSuccess
	StageError
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageScanning:
		return "scanning"
	case StageAnalyzing:
		return "analyzing"
	case StageUploading:
		return "uploading"
	case StageCommitting:
		return "committing"
	case StageSuccess:
		return "success"
	case StageError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome summarizes a completed run.
type Outcome struct {
	Uploaded int
	Deleted  int
	Skipped  int

	// CommitSHA is the new commit, or the existing head when UpToDate.
	CommitSHA string

	// BranchRef is the fully qualified ref that was created or updated.
	BranchRef string

	// UpToDate is set when nothing needed uploading or deleting and no
	// commit was created.
	UpToDate bool

	// FirstPush is set when the branch did not exist and was created.
	FirstPush bool

	// Warnings carries non-fatal degradations, e.g. delete-missing
	// disabled because the remote listing was truncated.
	Warnings []string
}
