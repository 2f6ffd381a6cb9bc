package runstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/celiapp/catalog/internal/domain"
)

// defaultTTL is how long run reports are kept when no TTL is configured
const defaultTTL = 720 * time.Hour

// runItem is one stored report with its expiration
type runItem struct {
	Data       []byte
	StartedAt  time.Time
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory run report store with TTL support
type MemoryStore struct {
	data  map[string]runItem
	ttl   time.Duration
	mutex sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a new in-memory run store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	store := &MemoryStore{
		data: make(map[string]runItem),
		ttl:  ttl,
		done: make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired reports every 10 minutes
	go store.cleanupExpired(10 * time.Minute)

	return store
}

// Save stores a run report, replacing any report with the same run id
func (s *MemoryStore) Save(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: run report needs a run id", domain.ErrInvalidRequest)
	}

	// Store the JSON form so callers never share the report with the store
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[report.RunID] = runItem{
		Data:       data,
		StartedAt:  report.StartedAt,
		Expiration: time.Now().Add(s.ttl),
	}

	return nil
}

// Get retrieves a run report by id
func (s *MemoryStore) Get(ctx context.Context, runID string) (*domain.RunReport, error) {
	s.mutex.RLock()
	item, exists := s.data[runID]
	s.mutex.RUnlock()

	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrRunNotFound
	}

	return decodeReport(item.Data)
}

// List returns up to limit unexpired reports, newest first
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}

	s.mutex.RLock()
	now := time.Now()
	items := make([]runItem, 0, len(s.data))
	for _, item := range s.data {
		if now.After(item.Expiration) {
			continue
		}
		items = append(items, item)
	}
	s.mutex.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].StartedAt.After(items[j].StartedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}

	reports := make([]*domain.RunReport, 0, len(items))
	for _, item := range items {
		report, err := decodeReport(item.Data)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// cleanupExpired removes expired reports periodically until Close is called
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired(time.Now())
		}
	}
}

func (s *MemoryStore) removeExpired(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for id, item := range s.data {
		if now.After(item.Expiration) {
			delete(s.data, id)
		}
	}
}

// Size returns the current number of stored reports, expired ones included
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func decodeReport(data []byte) (*domain.RunReport, error) {
	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode run report: %w", err)
	}
	return &report, nil
}
