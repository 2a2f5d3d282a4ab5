// Package store persists state across sync runs: the cleaned API token
// and one record per synced branch describing the last successful run.
// The engine never touches it; cmd writes records after a run succeeds.
package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// storeDirPerm is the permission mode for the state directory (~/.repo-sync/).
	storeDirPerm = fs.FileMode(0o700)

	// storeFilePerm is the permission mode for the state database file.
	storeFilePerm = fs.FileMode(0o600)

	// storeOpenTimeout is the maximum time to wait for the bolt database lock.
	storeOpenTimeout = 5 * time.Second
)

var (
	appBucket  = []byte("app")
	runsBucket = []byte("runs")
	tokenKey   = []byte("token")
)

// RunRecord describes the last successful sync of one branch.
type RunRecord struct {
	CommitSHA string    `json:"commit_sha"`
	Time      time.Time `json:"time"`
	Uploaded  int       `json:"uploaded"`
	Deleted   int       `json:"deleted"`
	Skipped   int       `json:"skipped"`
	FirstPush bool      `json:"first_push"`
}

// runKey identifies a branch across runs: "owner/repo@branch".
func runKey(repo, branch string) []byte {
	return []byte(repo + "@" + branch)
}

// Store wraps a bbolt database for all persistent application state.
type Store struct {
	db *bolt.DB
}

// Open opens the database at ~/.repo-sync/state.db, creating it if it
// does not exist.
func Open() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}

	return OpenAt(filepath.Join(home, ".repo-sync", "state.db"))
}

// OpenAt opens a database at the given path, creating it if it does not
// exist. Useful for tests that need an isolated database.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), storeDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(path, storeFilePerm, &bolt.Options{Timeout: storeOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(appBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(runsBucket)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the cached API token, or empty string.
func (s *Store) Token() string {
	var token string

	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(appBucket).Get(tokenKey)
		if v != nil {
			token = string(v)
		}

		return nil
	})

	return token
}

// SetToken persists the API token.
func (s *Store) SetToken(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(appBucket).Put(tokenKey, []byte(token))
	})
}

// LastRun returns the last successful run for a repo and branch, or nil
// if that branch has never been synced.
func (s *Store) LastRun(repo, branch string) (*RunRecord, error) {
	var rec *RunRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(runsBucket).Get(runKey(repo, branch))
		if v == nil {
			return nil
		}

		rec = &RunRecord{}

		return json.Unmarshal(v, rec)
	})

	return rec, err
}

// SetLastRun records a successful run for a repo and branch.
func (s *Store) SetLastRun(repo, branch string, rec RunRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		return tx.Bucket(runsBucket).Put(runKey(repo, branch), data)
	})
}

// AllRuns returns every recorded run, keyed by "owner/repo@branch".
func (s *Store) AllRuns() (map[string]RunRecord, error) {
	result := make(map[string]RunRecord)

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			var rec RunRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			result[string(k)] = rec

			return nil
		})
	})

	return result, err
}
