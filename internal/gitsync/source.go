package gitsync

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ignoredDirs are never descended into. .git in particular must not be
// pushed back to the repository it came from.
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Source scans a local directory into the engine's file set.
type Source struct {
	dir    string
	ignore []string
	logger *slog.Logger
}

// NewSource creates a scanner rooted at dir. ignore holds path.Match
// patterns applied to both the full relative path and the base name.
func NewSource(dir string, ignore []string, logger *slog.Logger) (*Source, error) {
	if dir == "" {
		return nil, fmt.Errorf("source directory must not be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", dir)
	}

	return &Source{dir: abs, ignore: ignore, logger: logger}, nil
}

// Dir returns the absolute source directory.
func (s *Source) Dir() string { return s.dir }

// Scan walks the source directory and returns one LocalFile per regular
// file, with normalized repo-relative paths. Dotfiles, ignored
// directories, symlinks, and paths matching an ignore pattern are
// skipped. Content is read lazily when the engine needs it.
func (s *Source) Scan() ([]LocalFile, error) {
	var files []LocalFile

	err := filepath.WalkDir(s.dir, func(absPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(s.dir, absPath)
		if err != nil {
			return err
		}

		if relPath == "." {
			return nil
		}

		base := filepath.Base(absPath)

		if d.IsDir() {
			if strings.HasPrefix(base, ".") || ignoredDirs[base] {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasPrefix(base, ".") {
			return nil
		}

		// Symlinks could point outside the source tree or at special
		// files that block reads.
		if d.Type()&os.ModeSymlink != 0 {
			s.logger.Debug("skipping symlink", slog.String("path", relPath))
			return nil
		}

		// macOS reports NFD names; normalize so paths compare equal to
		// what other platforms pushed.
		rel := NormalizePath(norm.NFC.String(relPath))
		if rel == "" {
			return nil
		}

		if s.matchesIgnore(rel, base) {
			s.logger.Debug("skipping ignored path", slog.String("path", rel))
			return nil
		}

		files = append(files, LocalFile{
			Path: rel,
			Read: func() ([]byte, error) {
				return os.ReadFile(absPath) //nolint:gosec // G304: absPath comes from walking the source dir
			},
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.dir, err)
	}

	s.logger.Info("local scan complete",
		slog.String("dir", s.dir),
		slog.Int("files", len(files)),
	)

	return files, nil
}

// matchesIgnore reports whether a relative path or its base name matches
// any ignore pattern. Malformed patterns never match.
func (s *Source) matchesIgnore(rel, base string) bool {
	for _, pattern := range s.ignore {
		if ok, err := path.Match(pattern, rel); err == nil && ok {
			return true
		}

		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}

	return false
}
