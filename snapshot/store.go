// Package snapshot keeps the last contest and problem list fetched for each contest id,
// so a page can be rendered without reaching the judge.
package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

const (
	bContests = "contests"
	bProblems = "problems"
	bSavedAt  = "saved_at"

	defaultTO = 2 * time.Second
)

// ErrNotFound is returned when nothing is cached for a contest id.
var ErrNotFound = errors.New("snapshot not found")

// Entry is what was cached for one contest.
type Entry struct {
	Contest  ojapi.Contest
	Problems []ojapi.Problem
	SavedAt  time.Time
}

// Store is a BoltDB-backed snapshot cache.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) a BoltDB database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: defaultTO})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bContests, bProblems, bSavedAt} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveContest replaces the cached contest for id.
func (s *Store) SaveContest(id string, c ojapi.Contest, at time.Time) error {
	return s.put(bContests, id, c, at)
}

// SaveProblems replaces the cached problem list for id.
func (s *Store) SaveProblems(id string, problems []ojapi.Problem, at time.Time) error {
	if problems == nil {
		problems = []ojapi.Problem{}
	}
	return s.put(bProblems, id, problems, at)
}

func (s *Store) put(bucket, id string, v any, at time.Time) error {
	if id == "" {
		return errors.New("missing contest id")
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ts, err := at.UTC().MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucket)).Put([]byte(id), val); err != nil {
			return err
		}
		return tx.Bucket([]byte(bSavedAt)).Put([]byte(id), ts)
	})
}

// Load returns the cached entry for id. A contest must have been saved;
// a missing problem list loads as empty.
func (s *Store) Load(id string) (*Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bContests)).Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(raw, &e.Contest); err != nil {
			return err
		}

		e.Problems = []ojapi.Problem{}
		if raw := tx.Bucket([]byte(bProblems)).Get([]byte(id)); raw != nil {
			if err := json.Unmarshal(raw, &e.Problems); err != nil {
				return err
			}
		}

		if raw := tx.Bucket([]byte(bSavedAt)).Get([]byte(id)); raw != nil {
			if err := e.SavedAt.UnmarshalBinary(raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// IDs lists every cached contest id in key order.
func (s *Store) IDs() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bContests)).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}

// Delete drops everything cached for id.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bContests, bProblems, bSavedAt} {
			if err := tx.Bucket([]byte(name)).Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
}
