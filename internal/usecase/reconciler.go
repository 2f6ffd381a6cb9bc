package usecase

import (
	"log"
	"strings"

	"github.com/celiapp/catalog/internal/domain"
)

// defaultBackupThreshold applies when no reconciliation threshold is configured
const defaultBackupThreshold = 0.85

// DefaultReconciliationFields are compared when no fields are configured
var DefaultReconciliationFields = []domain.Field{
	domain.FieldBrandName,
	domain.FieldProductName,
}

// restoredFields are copied from the matched backup record when non-blank
var restoredFields = []domain.Field{
	domain.FieldGlutenFreeScore,
	domain.FieldDescriptors,
}

// ReconcilerConfig holds configuration for the cross-dataset reconciler
type ReconcilerConfig struct {
	Threshold          float64
	Fields             []domain.Field
	EnableDebugLogging bool
}

// Reconciler restores hand-curated fields from a backup dataset
type Reconciler struct {
	threshold          float64
	fields             []domain.Field
	enableDebugLogging bool
}

// NewReconciler creates a reconciler. A zero threshold falls back to 0.85 and
// nil fields fall back to brand and product name. An explicitly empty field
// list is kept and matches nothing.
func NewReconciler(config ReconcilerConfig) *Reconciler {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = defaultBackupThreshold
	}

	fields := config.Fields
	if fields == nil {
		fields = DefaultReconciliationFields
	}

	return &Reconciler{
		threshold:          threshold,
		fields:             append([]domain.Field(nil), fields...),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Score is the average similarity of two records over the configured fields.
// With no fields configured the score is 0.
func (r *Reconciler) Score(current, backup domain.Record) float64 {
	if len(r.fields) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range r.fields {
		total += Similarity(current.Get(f), backup.Get(f))
	}
	return total / float64(len(r.fields))
}

// BestMatch returns the position of the highest-scoring backup record and its
// score. The first record wins a tie. The position is -1 when backup is empty.
func (r *Reconciler) BestMatch(current domain.Record, backup []domain.Record) (int, float64) {
	bestIdx := -1
	bestScore := 0.0
	for i, b := range backup {
		score := r.Score(current, b)
		if bestIdx == -1 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	return bestIdx, bestScore
}

// Reconcile copies gluten-free scores and descriptors from the best matching
// backup record onto each current record. A match needs a positive score at
// or above the threshold; only non-blank backup values are copied. Records
// come back in input order, and the report lists every record left
// unmatched with its best score.
func (r *Reconciler) Reconcile(current, backup []domain.Record) ([]domain.Record, *domain.ReconcileReport) {
	report := &domain.ReconcileReport{BackupRecords: len(backup)}
	out := make([]domain.Record, len(current))

	for i, rec := range current {
		out[i] = rec

		idx, score := r.BestMatch(rec, backup)
		if idx < 0 || score <= 0 || score < r.threshold {
			report.Unmatched = append(report.Unmatched, domain.UnmatchedRecord{
				Row:         rec.Row,
				BrandName:   rec.Get(domain.FieldBrandName),
				ProductName: rec.Get(domain.FieldProductName),
				BestScore:   score,
			})
			if r.enableDebugLogging {
				log.Printf("[RECONCILE] No backup match for %q - %q (best score: %.3f)",
					rec.Get(domain.FieldBrandName), rec.Get(domain.FieldProductName), score)
			}
			continue
		}

		report.Matched++
		match := backup[idx]
		updated := rec.Clone()
		for _, f := range restoredFields {
			value := match.Get(f)
			if strings.TrimSpace(value) == "" {
				continue
			}
			updated.Set(f, value)
			switch f {
			case domain.FieldGlutenFreeScore:
				report.RestoredGlutenScore++
			case domain.FieldDescriptors:
				report.RestoredDescriptors++
			}
		}
		out[i] = updated

		if r.enableDebugLogging {
			log.Printf("[RECONCILE] Matched %q - %q to backup row %d (score: %.3f)",
				rec.Get(domain.FieldBrandName), rec.Get(domain.FieldProductName), match.Row, score)
		}
	}

	if r.enableDebugLogging {
		log.Printf("[RECONCILE] Restored data for %d out of %d records", report.Matched, len(current))
	}

	return out, report
}
