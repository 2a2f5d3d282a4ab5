package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alexjbarnes/repo-sync/github"
	"golang.org/x/sync/errgroup"
)

// defaultBatchSize bounds concurrent blob uploads when Options.BatchSize
// is unset. Small enough to stay clear of the API's secondary rate
// limits; it is a throughput tunable, not a correctness parameter.
const defaultBatchSize = 5

// ErrRunInProgress is returned by Run when a sync is already underway on
// this engine. The engine supports one run at a time.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// Engine reconciles a local file set against a remote branch and commits
// the delta through the Git data API. It is a pure function of (files,
// remote snapshot, options) plus the injected RepoAPI: no global state
// is read, and nothing on the remote mutates until the final ref update,
// so a failed run leaves the branch untouched.
type Engine struct {
	api    RepoAPI
	logger *slog.Logger

	mu      sync.Mutex
	stage   Stage
	running bool
}

// NewEngine creates an engine driving the given repository API.
func NewEngine(api RepoAPI, logger *slog.Logger) *Engine {
	return &Engine{
		api:    api,
		logger: logger,
		stage:  StageIdle,
	}
}

// Stage returns the current stage of the running (or last) sync.
func (e *Engine) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stage
}

func (e *Engine) setStage(s Stage) {
	e.mu.Lock()
	e.stage = s
	e.mu.Unlock()

	e.logger.Debug("stage transition", slog.String("stage", s.String()))
}

// Run executes one full sync. files must carry normalized paths (the
// scanner guarantees this). On any failure the stage machine halts at
// StageError and the remote branch is unmodified, because the ref update
// is the single final mutation.
func (e *Engine) Run(ctx context.Context, files []LocalFile, opts Options) (*Outcome, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrRunInProgress
	}

	e.running = true
	e.stage = StageIdle
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	outcome, err := e.run(ctx, files, opts)
	if err != nil {
		e.setStage(StageError)
		return nil, err
	}

	e.setStage(StageSuccess)

	return outcome, nil
}

func (e *Engine) run(ctx context.Context, files []LocalFile, opts Options) (*Outcome, error) {
	if opts.Branch == "" {
		return nil, fmt.Errorf("branch must not be empty")
	}

	// Scanning: resolve the branch head and snapshot the remote tree.
	e.setStage(StageScanning)

	head, listing, err := e.scanRemote(ctx, opts.Branch)
	if err != nil {
		return nil, err
	}

	firstPush := head == ""

	// Analyzing: classify every local file against the snapshot.
	e.setStage(StageAnalyzing)

	plan := BuildPlan(files, listing, opts)

	for _, w := range plan.Warnings {
		e.logger.Warn(w)
	}

	if plan.DroppedNonBlob > 0 {
		e.logger.Warn("non-blob tree entries are not preserved across sync",
			slog.Int("count", plan.DroppedNonBlob),
		)
	}

	e.logger.Info("analysis complete",
		slog.Int("new", len(plan.Added)),
		slog.Int("modified", len(plan.Modified)),
		slog.Int("unchanged", len(plan.Skipped)),
		slog.Int("deleted", len(plan.Deleted)),
	)

	outcome := &Outcome{
		Skipped:   len(plan.Skipped),
		BranchRef: "refs/heads/" + opts.Branch,
		FirstPush: firstPush,
		Warnings:  plan.Warnings,
	}

	// Local content already matches the branch: succeed without
	// creating any object.
	if !plan.Changes() {
		e.logger.Info("nothing to sync, branch is up to date")
		outcome.UpToDate = true
		outcome.CommitSHA = head

		return outcome, nil
	}

	// Uploading: create blobs in bounded concurrent batches.
	e.setStage(StageUploading)

	uploaded, err := e.uploadBlobs(ctx, plan.Uploads, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	outcome.Uploaded = len(uploaded)
	outcome.Deleted = len(plan.Deleted)

	// Committing: assemble the tree, create the commit, move the ref.
	e.setStage(StageCommitting)

	sha, err := e.commit(ctx, plan, uploaded, head, opts)
	if err != nil {
		return nil, err
	}

	outcome.CommitSHA = sha

	e.logger.Info("sync complete",
		slog.String("commit", sha),
		slog.Int("uploaded", outcome.Uploaded),
		slog.Int("deleted", outcome.Deleted),
		slog.Int("skipped", outcome.Skipped),
	)

	return outcome, nil
}

// scanRemote resolves the branch head and fetches its recursive tree
// listing. A missing branch switches to first-push mode (empty head and
// nil listing); a missing repository is fatal.
func (e *Engine) scanRemote(ctx context.Context, branch string) (string, *github.TreeListing, error) {
	head, err := e.api.ResolveBranchHead(ctx, branch)
	if err != nil {
		if !github.IsNotFound(err) {
			return "", nil, err
		}

		// The ref lookup 404s for a missing repo too; only a present
		// repository makes the miss mean "branch does not exist yet".
		if _, repoErr := e.api.GetRepository(ctx); repoErr != nil {
			return "", nil, fmt.Errorf("repository not accessible: %w", repoErr)
		}

		e.logger.Info("branch not found, first push", slog.String("branch", branch))

		return "", nil, nil
	}

	listing, err := e.api.ListTreeRecursive(ctx, head)
	if err != nil {
		return "", nil, err
	}

	e.logger.Info("remote snapshot fetched",
		slog.String("head", head),
		slog.Int("entries", len(listing.Entries)),
		slog.Bool("truncated", listing.Truncated),
	)

	return head, listing, nil
}

// uploadBlobs creates one blob per upload in batches of batchSize.
// Uploads within a batch run concurrently; batches are strictly
// sequential to bound peak in-flight requests. The first failure aborts
// the current batch and the run before the next batch starts. Blobs
// already created become unreferenced objects on the remote; the branch
// is unaffected because no tree or ref exists yet that points at them.
func (e *Engine) uploadBlobs(ctx context.Context, uploads []Upload, batchSize int) ([]github.TreeEntry, error) {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	entries := make([]github.TreeEntry, len(uploads))

	var done atomic.Int64

	for start := 0; start < len(uploads); start += batchSize {
		end := min(start+batchSize, len(uploads))

		g, gctx := errgroup.WithContext(ctx)

		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				up := uploads[i]

				content, err := up.File.Read()
				if err != nil {
					return fmt.Errorf("reading %s: %w", up.File.Path, err)
				}

				sha, err := e.api.CreateBlob(gctx, content)
				if err != nil {
					return fmt.Errorf("uploading %s: %w", up.RemotePath, err)
				}

				entries[i] = github.TreeEntry{
					Path: up.RemotePath,
					Mode: regularFileMode,
					Type: "blob",
					SHA:  sha,
				}

				e.logger.Debug("blob uploaded",
					slog.String("path", up.RemotePath),
					slog.Int64("done", done.Add(1)),
					slog.Int("total", len(uploads)),
				)

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// commit assembles the final tree, creates the commit object, and moves
// the branch ref. The ref update is the only step that mutates the
// branch, making the whole run atomic from the branch's point of view.
func (e *Engine) commit(ctx context.Context, plan *Plan, uploaded []github.TreeEntry, head string, opts Options) (string, error) {
	entries := make([]github.TreeEntry, 0, len(uploaded)+len(plan.Keep))
	entries = append(entries, uploaded...)
	entries = append(entries, plan.Keep...)

	treeSHA, err := e.api.CreateTree(ctx, entries)
	if err != nil {
		return "", err
	}

	message := e.commitMessage(ctx, plan, opts.Messages)

	var parents []string
	if head != "" {
		parents = []string{head}
	}

	sha, err := e.api.CreateCommit(ctx, message, treeSHA, parents)
	if err != nil {
		return "", err
	}

	if head == "" {
		if err := e.api.CreateRef(ctx, opts.Branch, sha); err != nil {
			return "", err
		}
	} else {
		if err := e.api.UpdateRef(ctx, opts.Branch, sha); err != nil {
			return "", err
		}
	}

	return sha, nil
}

// commitMessage asks the configured generator for a message and falls
// back to the templated summary if it is missing or fails. Generator
// failure is never fatal to the run.
func (e *Engine) commitMessage(ctx context.Context, plan *Plan, gen Generator) string {
	fallback := FallbackMessage(plan.Added, plan.Modified, plan.Deleted)

	if gen == nil {
		return fallback
	}

	msg, err := gen.Generate(ctx, plan.Added, plan.Modified, plan.Deleted)
	if err != nil {
		e.logger.Warn("commit message generation failed, using fallback",
			slog.String("error", err.Error()),
		)

		return fallback
	}

	return msg
}
