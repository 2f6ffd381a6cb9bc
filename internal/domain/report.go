package domain

import "time"

// SchemaReport describes how a header row was mapped onto canonical fields
type SchemaReport struct {
	Index            FieldIndex `json:"index"`
	UnmatchedHeaders []string   `json:"unmatchedHeaders,omitempty"`
	DuplicateHeaders []string   `json:"duplicateHeaders,omitempty"`
	MissingFields    []Field    `json:"missingFields,omitempty"`
}

// SkippedRow is a data row that did not produce a record
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BrandConsolidation records one rewritten brand spelling
type BrandConsolidation struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// BrandAlternatives lists the surface forms sharing one normalized brand key
type BrandAlternatives struct {
	Key   string   `json:"key"`
	Forms []string `json:"forms"`
}

// UnmatchedRecord is a current record with no backup match above threshold
type UnmatchedRecord struct {
	Row         int     `json:"row"`
	BrandName   string  `json:"brandName"`
	ProductName string  `json:"productName"`
	BestScore   float64 `json:"bestScore"`
}

// ReconcileReport summarizes a backup reconciliation pass
type ReconcileReport struct {
	BackupRecords       int               `json:"backupRecords"`
	Matched             int               `json:"matched"`
	RestoredGlutenScore int               `json:"restoredGlutenScore"`
	RestoredDescriptors int               `json:"restoredDescriptors"`
	Unmatched           []UnmatchedRecord `json:"unmatched,omitempty"`
}

// RunReport is the side channel for expected data-quality variance in one run.
// It is the only artifact of a run that gets persisted.
type RunReport struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Schema       SchemaReport `json:"schema"`
	InputRows    int          `json:"inputRows"`
	SkippedRows  []SkippedRow `json:"skippedRows,omitempty"`
	Records      int          `json:"records"`
	MissingBrand int          `json:"missingBrand"`

	ProductNamesFilled  int                  `json:"productNamesFilled"`
	BrandPrefixStripped int                  `json:"brandPrefixStripped"`
	BrandConsolidations []BrandConsolidation `json:"brandConsolidations,omitempty"`
	BrandAlternatives   []BrandAlternatives  `json:"brandAlternatives,omitempty"`
	UniqueBrands        int                  `json:"uniqueBrands"`

	DuplicateMode    string `json:"duplicateMode"`
	Clusters         int    `json:"clusters"`
	ClusteredRecords int    `json:"clusteredRecords"`
	CanonicalRecords int    `json:"canonicalRecords"`

	Reconcile *ReconcileReport `json:"reconcile,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
}
