package usecase

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/celiapp/catalog/internal/domain"
)

// defaultPrimarySource is the source whose records are preferred as merge base
const defaultPrimarySource = "LCBO"

// mergeFillFields are copied from other cluster members when the base lacks them.
// Every other field comes from the base alone.
var mergeFillFields = []domain.Field{
	domain.FieldImageURL,
	domain.FieldPrice,
	domain.FieldSourceID,
}

// RecordMerger collapses a duplicate cluster into one record
type RecordMerger struct {
	primarySource      string
	enableDebugLogging bool
}

// NewRecordMerger creates a merger preferring records from primarySource
func NewRecordMerger(primarySource string, enableDebugLogging bool) *RecordMerger {
	if strings.TrimSpace(primarySource) == "" {
		primarySource = defaultPrimarySource
	}
	return &RecordMerger{
		primarySource:      primarySource,
		enableDebugLogging: enableDebugLogging,
	}
}

// mergeRank is the precedence key of a record; smaller sorts first
type mergeRank struct {
	notPrimary bool
	noImage    bool
	noPrice    bool
	nameLength int
}

// less orders false before true on the flags, then longer product names first
func (a mergeRank) less(b mergeRank) bool {
	if a.notPrimary != b.notPrimary {
		return !a.notPrimary
	}
	if a.noImage != b.noImage {
		return !a.noImage
	}
	if a.noPrice != b.noPrice {
		return !a.noPrice
	}
	return a.nameLength > b.nameLength
}

func (m *RecordMerger) rank(r domain.Record) mergeRank {
	return mergeRank{
		notPrimary: !strings.EqualFold(strings.TrimSpace(r.Get(domain.FieldSource)), m.primarySource),
		noImage:    !r.Has(domain.FieldImageURL),
		noPrice:    !r.Has(domain.FieldPrice),
		nameLength: utf8.RuneCountInString(r.Get(domain.FieldProductName)),
	}
}

// Order returns the cluster's records sorted by merge precedence.
// The sort is stable, so equally ranked records keep cluster order.
func (m *RecordMerger) Order(cluster domain.Cluster) []domain.Record {
	sorted := make([]domain.Record, len(cluster.Records))
	copy(sorted, cluster.Records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return m.rank(sorted[i]).less(m.rank(sorted[j]))
	})
	return sorted
}

// Merge returns one record representing the whole cluster.
// The best-ranked record is the base; image URL, price and source id are
// filled from the first later member that has them. Populated base values are
// never overwritten.
func (m *RecordMerger) Merge(cluster domain.Cluster) (domain.Record, error) {
	if len(cluster.Records) == 0 {
		return domain.Record{}, fmt.Errorf("%w: cannot merge an empty cluster", domain.ErrInvariantViolation)
	}

	sorted := m.Order(cluster)
	merged := sorted[0].Clone()

	for _, field := range mergeFillFields {
		if merged.Has(field) {
			continue
		}
		for _, other := range sorted[1:] {
			if other.Has(field) {
				merged.Set(field, other.Get(field))
				break
			}
		}
	}

	if m.enableDebugLogging {
		log.Printf("[MERGE] %d records -> %q / %q", len(sorted),
			merged.Get(domain.FieldBrandName), merged.Get(domain.FieldProductName))
	}

	return merged, nil
}

// MergeAll merges every cluster, in cluster order
func (m *RecordMerger) MergeAll(clusters []domain.Cluster) ([]domain.Record, error) {
	merged := make([]domain.Record, 0, len(clusters))
	for _, c := range clusters {
		r, err := m.Merge(c)
		if err != nil {
			return nil, err
		}
		merged = append(merged, r)
	}
	return merged, nil
}
