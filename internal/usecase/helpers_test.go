package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/celiapp/catalog/internal/domain"
)

// rec builds a record from alternating field/value pairs
func rec(pairs ...string) domain.Record {
	values := make(map[domain.Field]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		values[domain.Field(pairs[i])] = pairs[i+1]
	}
	return domain.NewRecord(values)
}

// product builds a record with just a brand and product name
func product(brand, name string) domain.Record {
	return rec("brand_name", brand, "product_name", name)
}

// fakeRunRepository is an in-memory RunRepository for service tests
type fakeRunRepository struct {
	mu      sync.Mutex
	reports map[string]*domain.RunReport
	saveErr error
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{reports: make(map[string]*domain.RunReport)}
}

func (f *fakeRunRepository) Save(_ context.Context, report *domain.RunReport) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[report.RunID] = report
	return nil
}

func (f *fakeRunRepository) Get(_ context.Context, runID string) (*domain.RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return r, nil
}

func (f *fakeRunRepository) List(_ context.Context, limit int) ([]*domain.RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.RunReport, 0, len(f.reports))
	for _, r := range f.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
