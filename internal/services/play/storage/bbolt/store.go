// Package bbolt provides a BoltDB-backed progress snapshot store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/puzzlebox-games/puzzlebox/internal/services/play/storage"
	"go.etcd.io/bbolt"
)

const progressBucket = "progress"

// Store provides a BoltDB-backed snapshot store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put persists a progress snapshot, replacing any earlier snapshot for
// the same session.
func (s *Store) Put(ctx context.Context, progress storage.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(progress.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(progressBucket))
		if bucket == nil {
			return fmt.Errorf("progress bucket is missing")
		}
		return bucket.Put(progressKey(progress.SessionID), payload)
	})
}

// Get fetches a progress snapshot by session ID.
func (s *Store) Get(ctx context.Context, sessionID string) (storage.Progress, error) {
	if err := ctx.Err(); err != nil {
		return storage.Progress{}, err
	}
	if s == nil || s.db == nil {
		return storage.Progress{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return storage.Progress{}, fmt.Errorf("session id is required")
	}

	var progress storage.Progress
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(progressBucket))
		if bucket == nil {
			return fmt.Errorf("progress bucket is missing")
		}
		payload := bucket.Get(progressKey(sessionID))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &progress); err != nil {
			return fmt.Errorf("unmarshal progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.Progress{}, err
	}

	return progress, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(progressBucket))
		if err != nil {
			return fmt.Errorf("create progress bucket: %w", err)
		}
		return nil
	})
}

func progressKey(sessionID string) []byte {
	return []byte(sessionID)
}
