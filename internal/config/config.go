package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// overridesFile is the optional per-directory config overlay, looked up
// in the source directory.
const overridesFile = ".repo-sync.yml"

// Config holds all environment-based configuration for repo-sync.
type Config struct {
	// GitHub personal access token (required). Cleaned of stray
	// whitespace before use.
	Token string `env:"GITHUB_TOKEN"`

	// Target repository: "owner/repo" or a full https URL (required).
	Repo string `env:"SYNC_REPO"`

	// Branch to sync to. Empty means the repository's default branch.
	Branch string `env:"SYNC_BRANCH" envDefault:""`

	// Local directory to sync from.
	SourceDir string `env:"SYNC_SOURCE_DIR" envDefault:"."`

	// Subdirectory inside the repository to sync into. Empty syncs to
	// the repository root.
	TargetDir string `env:"SYNC_TARGET_DIR" envDefault:""`

	// DeleteMissing removes remote files under the target dir that no
	// longer exist locally.
	DeleteMissing bool `env:"DELETE_MISSING" envDefault:"false"`

	// AutoCommitMessage enables the external commit message generator.
	// When false (or the generator fails) the templated summary is used.
	AutoCommitMessage bool `env:"AUTO_COMMIT_MESSAGE" envDefault:"false"`

	// CommitMessageCmd is the shell command run to generate a commit
	// message. It receives a JSON change summary on stdin.
	CommitMessageCmd string `env:"COMMIT_MESSAGE_CMD" envDefault:""`

	// UploadBatchSize bounds concurrent blob uploads.
	UploadBatchSize int `env:"UPLOAD_BATCH_SIZE" envDefault:"5"`

	// Watch keeps the process running and re-syncs on local changes.
	Watch bool `env:"WATCH" envDefault:"false"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Ignore holds path patterns excluded from the scan. Only settable
	// through the overrides file.
	Ignore []string `env:"-"`
}

// Overrides is the subset of configuration a source directory may carry
// in its own .repo-sync.yml.
type Overrides struct {
	Branch    string   `yaml:"branch"`
	TargetDir string   `yaml:"target_dir"`
	Ignore    []string `yaml:"ignore"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing credentials to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables, then applies any
// .repo-sync.yml overrides found in the source directory.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Resolve SourceDir to an absolute path at startup so the scanner
	// and the overrides lookup agree on one location.
	absDir, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving source dir to absolute path: %w", err)
	}

	cfg.SourceDir = absDir

	if err := cfg.applyOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyOverrides merges the source directory's .repo-sync.yml into the
// config. A missing file is fine; a malformed one is an error so a typo
// does not silently sync to the wrong place.
func (c *Config) applyOverrides() error {
	path := filepath.Join(c.SourceDir, overridesFile)

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is rooted at the configured source dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("reading %s: %w", overridesFile, err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parsing %s: %w", overridesFile, err)
	}

	if o.Branch != "" {
		c.Branch = o.Branch
	}

	if o.TargetDir != "" {
		c.TargetDir = o.TargetDir
	}

	c.Ignore = append(c.Ignore, o.Ignore...)

	return nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}

	if c.Repo == "" {
		return fmt.Errorf("SYNC_REPO is required")
	}

	if c.UploadBatchSize < 1 {
		return fmt.Errorf("UPLOAD_BATCH_SIZE must be at least 1")
	}

	if c.AutoCommitMessage && c.CommitMessageCmd == "" {
		return fmt.Errorf("COMMIT_MESSAGE_CMD is required when AUTO_COMMIT_MESSAGE is enabled")
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
