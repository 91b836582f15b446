package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/lifemap/diary/domain"
	"github.com/lifemap/diary/repository"
)

// Store keeps per-user drafts in a local BoltDB file, keyed by user id, so an
// interrupted session resumes with its form intact.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the drafts bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "drafts"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, userID string) (*domain.Draft, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var payload []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(s.bucket).Get([]byte(userID)); raw != nil {
			payload = append([]byte(nil), raw...)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, domain.ErrDraftNotFound
	}

	var draft domain.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *Store) Put(ctx context.Context, userID string, draft *domain.Draft) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if userID == "" || draft == nil {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(userID), payload)
	})
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(userID))
	})
}

// PruneOlderThan drops drafts untouched since the cutoff.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}

	pruned := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		cursor := bucket.Cursor()
		var stale [][]byte
		for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
			var draft domain.Draft
			if err := json.Unmarshal(value, &draft); err != nil {
				// Unreadable payloads are stale by definition.
				stale = append(stale, append([]byte(nil), key...))
				continue
			}
			if draft.UpdatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), key...))
			}
		}
		for _, key := range stale {
			if err := bucket.Delete(key); err != nil {
				return err
			}
			pruned++
		}
		return nil
	})
	return pruned, err
}

// Size returns the number of stored drafts.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

var _ repository.DraftRepository = (*Store)(nil)
