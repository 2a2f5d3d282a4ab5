package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexjbarnes/repo-sync/github"
	"github.com/alexjbarnes/repo-sync/internal/config"
	"github.com/alexjbarnes/repo-sync/internal/gitsync"
	"github.com/alexjbarnes/repo-sync/internal/logging"
	"github.com/alexjbarnes/repo-sync/internal/runlog"
	"github.com/alexjbarnes/repo-sync/internal/store"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Every log line also lands in the in-memory run log, so the full
	// transcript of a run is available after it finishes.
	recorder := runlog.NewRecorder(logging.NewHandler(cfg.Environment))
	logger := slog.New(recorder)

	logger.Info("repo-sync starting",
		slog.String("version", Version),
		slog.String("repo", cfg.Repo),
		slog.Bool("watch", cfg.Watch),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := github.ParseRepo(cfg.Repo)
	if err != nil {
		return err
	}

	token := github.CleanToken(cfg.Token)
	client := github.NewClient(repo, token, nil)

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer db.Close()

	if err := db.SetToken(token); err != nil {
		logger.Warn("failed to cache token", slog.String("error", err.Error()))
	}

	branch, err := resolveBranch(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	source, err := gitsync.NewSource(cfg.SourceDir, cfg.Ignore, logger)
	if err != nil {
		return err
	}

	opts := gitsync.Options{
		Branch:        branch,
		TargetDir:     gitsync.NormalizePath(cfg.TargetDir),
		DeleteMissing: cfg.DeleteMissing,
		BatchSize:     cfg.UploadBatchSize,
	}

	if cfg.AutoCommitMessage {
		opts.Messages = &gitsync.CommandGenerator{Command: cfg.CommitMessageCmd}
	}

	engine := gitsync.NewEngine(client, logger)

	syncOnce := func(ctx context.Context) error {
		return syncRun(ctx, engine, source, db, repo, opts, logger)
	}

	if err := syncOnce(ctx); err != nil {
		// In watch mode a failed initial sync is retried on the next
		// change burst instead of killing the process.
		if !cfg.Watch || ctx.Err() != nil {
			return err
		}

		logger.Error("initial sync failed", slog.String("error", err.Error()))
	}

	if !cfg.Watch {
		return nil
	}

	watcher := gitsync.NewWatcher(source, syncOnce, logger)

	if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("shutting down")

	return nil
}

// resolveBranch returns the configured branch, or the repository's
// default branch when none is configured.
func resolveBranch(ctx context.Context, cfg *config.Config, client *github.Client, logger *slog.Logger) (string, error) {
	if cfg.Branch != "" {
		return cfg.Branch, nil
	}

	repoInfo, err := client.GetRepository(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving default branch: %w", err)
	}

	branch := repoInfo.DefaultBranch
	if branch == "" {
		branch = "main"
	}

	logger.Info("using repository default branch", slog.String("branch", branch))

	return branch, nil
}

// syncRun performs one scan-and-sync and records the result.
func syncRun(ctx context.Context, engine *gitsync.Engine, source *gitsync.Source, db *store.Store, repo github.Repo, opts gitsync.Options, logger *slog.Logger) error {
	files, err := source.Scan()
	if err != nil {
		return err
	}

	outcome, err := engine.Run(ctx, files, opts)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if outcome.UpToDate {
		logger.Info("up to date",
			slog.String("branch", outcome.BranchRef),
			slog.String("head", outcome.CommitSHA),
		)

		return nil
	}

	logger.Info("pushed",
		slog.String("branch", outcome.BranchRef),
		slog.String("commit", outcome.CommitSHA),
		slog.Int("uploaded", outcome.Uploaded),
		slog.Int("deleted", outcome.Deleted),
		slog.Int("skipped", outcome.Skipped),
		slog.Bool("first_push", outcome.FirstPush),
	)

	err = db.SetLastRun(repo.String(), opts.Branch, store.RunRecord{
		CommitSHA: outcome.CommitSHA,
		Time:      time.Now(),
		Uploaded:  outcome.Uploaded,
		Deleted:   outcome.Deleted,
		Skipped:   outcome.Skipped,
		FirstPush: outcome.FirstPush,
	})
	if err != nil {
		logger.Warn("failed to record run", slog.String("error", err.Error()))
	}

	return nil
}
