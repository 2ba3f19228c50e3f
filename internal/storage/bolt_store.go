package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const submissionBucket = "submissions"

var errBucketMissing = fmt.Errorf("submission bucket missing")

type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(submissionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             opts.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Lookup returns the live submission recorded under key. Expired entries are removed.
func (b *boltStore) Lookup(key string) (Submission, bool, error) {
	if b == nil || b.db == nil {
		return Submission{}, false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return Submission{}, false, err
	}

	var (
		sub   Submission
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(submissionBucket))
		if bucket == nil {
			return errBucketMissing
		}
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		decoded, ok := decodeSubmission(raw)
		if !ok || !decoded.ExpiresAt.After(now) {
			return bucket.Delete([]byte(key))
		}
		sub, found = decoded, true
		return nil
	})
	return sub, found, err
}

// Record stores sub, stamping SubmittedAt and ExpiresAt from the store clock.
func (b *boltStore) Record(sub Submission) error {
	if b == nil || b.db == nil {
		return nil
	}
	if sub.Key == "" {
		return fmt.Errorf("submission key is empty")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	sub.SubmittedAt = now.UTC()
	sub.ExpiresAt = now.Add(b.ttl).UTC()

	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(submissionBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(sub.Key), raw)
	})
}

// maybeCleanupExpired sweeps expired submissions at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(submissionBucket))
		if bucket == nil {
			return errBucketMissing
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			sub, ok := decodeSubmission(v)
			if !ok || !sub.ExpiresAt.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeSubmission(raw []byte) (Submission, bool) {
	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return Submission{}, false
	}
	if sub.ExpiresAt.IsZero() {
		return Submission{}, false
	}
	return sub, true
}
