package runstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/celiapp/catalog/internal/domain"
)

// Bucket keys
var bucketRuns = []byte("runs")

// boltEntry is the stored form of a report
type boltEntry struct {
	ExpiresAt time.Time         `json:"expiresAt"`
	Report    *domain.RunReport `json:"report"`
}

// BoltStore is a run store backed by a bbolt file
type BoltStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

// NewBoltStore opens (or creates) a bbolt database at the given path and
// drops reports that have expired since the last run
func NewBoltStore(path string, ttl time.Duration) (*BoltStore, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}

	s := &BoltStore{db: db, ttl: ttl, now: time.Now}
	if _, err := s.Purge(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying bbolt database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save stores a run report, replacing any report with the same run id
func (s *BoltStore) Save(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: run report needs a run id", domain.ErrInvalidRequest)
	}

	data, err := json.Marshal(boltEntry{ExpiresAt: s.now().Add(s.ttl), Report: report})
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(report.RunID), data)
	})
}

// Get retrieves a run report by id
func (s *BoltStore) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := tx.Bucket(bucketRuns).Get([]byte(runID)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, domain.ErrRunNotFound
	}

	entry, err := decodeEntry(data)
	if err != nil {
		return nil, err
	}
	if s.now().After(entry.ExpiresAt) {
		return nil, domain.ErrRunNotFound
	}
	return entry.Report, nil
}

// List returns up to limit unexpired reports, newest first
func (s *BoltStore) List(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}

	now := s.now()
	var reports []*domain.RunReport
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(_, v []byte) error {
			entry, err := decodeEntry(v)
			if err != nil {
				return err
			}
			if now.After(entry.ExpiresAt) {
				return nil
			}
			reports = append(reports, entry.Report)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}
	if reports == nil {
		reports = []*domain.RunReport{}
	}
	return reports, nil
}

// Purge deletes expired reports and returns how many were removed
func (s *BoltStore) Purge() (int, error) {
	now := s.now()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			entry, err := decodeEntry(v)
			if err != nil || now.After(entry.ExpiresAt) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		// Deleting inside ForEach is not allowed, so collect first
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge expired runs: %w", err)
	}
	return removed, nil
}

func decodeEntry(data []byte) (*boltEntry, error) {
	var entry boltEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode run report: %w", err)
	}
	if entry.Report == nil {
		return nil, fmt.Errorf("decode run report: empty entry")
	}
	return &entry, nil
}
