package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/celiapp/catalog/internal/domain"
)

// EngineConfig holds the matching parameters shared by the engine components
type EngineConfig struct {
	DuplicateMode           DuplicateMode
	ClusterPolicy           ClusterPolicy
	FuzzyDuplicateThreshold float64
	BackupThreshold         float64
	ReconciliationFields    []domain.Field
	PrimarySource           string
}

// PipelineOptions toggles the optional pipeline stages
type PipelineOptions struct {
	FillProductNames  bool `json:"fillProductNames"`
	ConsolidateBrands bool `json:"consolidateBrands"`
	RemoveDuplicates  bool `json:"removeDuplicates"`
	RestoreFromBackup bool `json:"restoreFromBackup"`
}

// DefaultPipelineOptions runs deduplication and backup restoration only
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		RemoveDuplicates:  true,
		RestoreFromBackup: true,
	}
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	Engine             EngineConfig
	Pipeline           PipelineOptions
	EnableDebugLogging bool
}

// ProcessRequest is one pipeline run. Rows and BackupRows include their
// header row. Nil Engine or Pipeline fall back to the service defaults.
type ProcessRequest struct {
	Rows       [][]string
	BackupRows [][]string
	Engine     *EngineConfig
	Pipeline   *PipelineOptions
}

// Result is the canonical record set produced by one run
type Result struct {
	Header  []string
	Index   domain.FieldIndex
	Records []domain.Record

	// Rows is the rendered sheet, header first, ready for a SheetWriter
	Rows [][]string

	// Coverage maps each input record position to its canonical record position
	Coverage []int
}

// engine bundles the components configured for one run
type engine struct {
	mapper     *SchemaMapper
	normalizer *Normalizer
	extractor  *ProductExtractor
	grouper    *DuplicateGrouper
	merger     *RecordMerger
	reconciler *Reconciler
}

func newEngine(config EngineConfig, debug bool) *engine {
	return &engine{
		mapper:     NewSchemaMapper(debug),
		normalizer: NewNormalizer(debug),
		extractor:  NewProductExtractor(debug),
		grouper: NewDuplicateGrouper(GrouperConfig{
			Mode:               config.DuplicateMode,
			Policy:             config.ClusterPolicy,
			Threshold:          config.FuzzyDuplicateThreshold,
			EnableDebugLogging: debug,
		}),
		merger: NewRecordMerger(config.PrimarySource, debug),
		reconciler: NewReconciler(ReconcilerConfig{
			Threshold:          config.BackupThreshold,
			Fields:             config.ReconciliationFields,
			EnableDebugLogging: debug,
		}),
	}
}

// CatalogService runs the cleaning pipeline and records run reports
type CatalogService struct {
	runs               domain.RunRepository
	engine             EngineConfig
	pipeline           PipelineOptions
	enableDebugLogging bool
}

// NewCatalogService creates a new catalog service. runs may be nil, in which
// case reports are returned but not stored.
func NewCatalogService(runs domain.RunRepository, config CatalogServiceConfig) *CatalogService {
	return &CatalogService{
		runs:               runs,
		engine:             config.Engine,
		pipeline:           config.Pipeline,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MapHeaders returns the schema mapping of a header row
func (s *CatalogService) MapHeaders(headers []string) (*domain.SchemaReport, error) {
	return NewSchemaMapper(s.enableDebugLogging).Map(headers)
}

// Process runs the pipeline: map schema, build records, normalize, fill
// product names, consolidate brands, group and merge duplicates, reconcile
// against the backup, then render rows for write-back.
// Only ErrSchema and ErrInvariantViolation are returned as errors; data
// quality findings go into the report.
func (s *CatalogService) Process(ctx context.Context, req ProcessRequest) (*Result, *domain.RunReport, error) {
	engineConfig := s.engine
	if req.Engine != nil {
		engineConfig = *req.Engine
	}
	opts := s.pipeline
	if req.Pipeline != nil {
		opts = *req.Pipeline
	}
	e := newEngine(engineConfig, s.enableDebugLogging)

	report := &domain.RunReport{
		RunID:         uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		DuplicateMode: string(e.grouper.Mode()),
	}

	if len(req.Rows) == 0 {
		return nil, nil, fmt.Errorf("%w: no header row", domain.ErrSchema)
	}
	header := req.Rows[0]

	schema, err := e.mapper.Map(header)
	if err != nil {
		return nil, nil, err
	}
	report.Schema = *schema
	if _, ok := schema.Index[domain.FieldBrandName]; !ok {
		report.Warnings = append(report.Warnings, "no brand_name column found")
	}
	if _, ok := schema.Index[domain.FieldProductName]; !ok {
		report.Warnings = append(report.Warnings, "no product_name column found")
	}

	data := req.Rows[1:]
	report.InputRows = len(data)
	records, skipped := BuildRecords(data, schema.Index)
	report.SkippedRows = skipped
	report.Records = len(records)

	records = e.normalizer.NormalizeRecords(records)

	if opts.FillProductNames {
		records, report.ProductNamesFilled = e.extractor.FillMissingProductNames(records)
		records, report.BrandPrefixStripped = e.extractor.StripBrandFromProductNames(records)
	}

	report.UniqueBrands, report.BrandAlternatives = e.normalizer.BrandInventory(records)
	if opts.ConsolidateBrands {
		records, report.BrandConsolidations = e.normalizer.ConsolidateBrands(records)
	}

	for _, r := range records {
		if !r.Has(domain.FieldBrandName) {
			report.MissingBrand++
		}
	}

	canonical := records
	coverage := identityCoverage(len(records))
	if opts.RemoveDuplicates {
		clusters, err := e.grouper.Group(records)
		if err != nil {
			return nil, nil, err
		}
		merged, err := e.merger.MergeAll(clusters)
		if err != nil {
			return nil, nil, err
		}
		canonical, coverage, err = assembleCanonical(records, clusters, merged)
		if err != nil {
			return nil, nil, err
		}
		report.Clusters = len(clusters)
		for _, c := range clusters {
			report.ClusteredRecords += c.Size()
		}
	}
	report.CanonicalRecords = len(canonical)

	if opts.RestoreFromBackup && len(req.BackupRows) > 0 {
		backupSchema, err := e.mapper.Map(req.BackupRows[0])
		if err != nil {
			return nil, nil, fmt.Errorf("backup sheet: %w", err)
		}
		backup, _ := BuildBackupRecords(req.BackupRows[1:], backupSchema.Index)
		canonical, report.Reconcile = e.reconciler.Reconcile(canonical, backup)
	}

	result := &Result{
		Header:   append([]string(nil), header...),
		Index:    schema.Index,
		Records:  canonical,
		Rows:     RenderRows(header, schema.Index, canonical),
		Coverage: coverage,
	}

	report.FinishedAt = time.Now().UTC()

	if s.runs != nil {
		if err := s.runs.Save(ctx, report); err != nil {
			// A lost report does not invalidate the cleaned data
			log.Printf("[PIPELINE] Failed to store run report %s: %v", report.RunID, err)
			report.Warnings = append(report.Warnings, "run report was not stored")
		}
	}

	if s.enableDebugLogging {
		log.Printf("[PIPELINE] Run %s: %d rows -> %d records -> %d canonical (%d clusters)",
			report.RunID, report.InputRows, report.Records, report.CanonicalRecords, report.Clusters)
	}

	return result, report, nil
}

// GetRun returns a stored run report
func (s *CatalogService) GetRun(ctx context.Context, runID string) (*domain.RunReport, error) {
	if s.runs == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.runs.Get(ctx, runID)
}

// ListRuns returns up to limit stored run reports, newest first
func (s *CatalogService) ListRuns(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}
	if s.runs == nil {
		return []*domain.RunReport{}, nil
	}
	return s.runs.List(ctx, limit)
}

// BuildRecords turns data rows into records using a Field Index.
// Blank rows and rows with neither a brand nor a product name are skipped
// and reported. Short rows read as empty for the missing columns.
func BuildRecords(rows [][]string, idx domain.FieldIndex) ([]domain.Record, []domain.SkippedRow) {
	var records []domain.Record
	var skipped []domain.SkippedRow

	for i, row := range rows {
		if isBlankRow(row) {
			skipped = append(skipped, domain.SkippedRow{Row: i + 1, Reason: "blank row"})
			continue
		}
		r := recordFromRow(row, idx, i+1)
		if !r.Has(domain.FieldBrandName) && !r.Has(domain.FieldProductName) {
			skipped = append(skipped, domain.SkippedRow{Row: i + 1, Reason: "no brand or product name"})
			continue
		}
		records = append(records, r)
	}

	return records, skipped
}

// BuildBackupRecords turns backup rows into records. Only blank rows are
// skipped; a row with no names simply never scores above zero.
func BuildBackupRecords(rows [][]string, idx domain.FieldIndex) ([]domain.Record, []domain.SkippedRow) {
	var records []domain.Record
	var skipped []domain.SkippedRow

	for i, row := range rows {
		if isBlankRow(row) {
			skipped = append(skipped, domain.SkippedRow{Row: i + 1, Reason: "blank row"})
			continue
		}
		records = append(records, recordFromRow(row, idx, i+1))
	}

	return records, skipped
}

func recordFromRow(row []string, idx domain.FieldIndex, rowNum int) domain.Record {
	values := make(map[domain.Field]string, len(idx))
	for f := range idx {
		values[f] = idx.Value(row, f)
	}
	r := domain.NewRecord(values)
	r.Raw = append([]string(nil), row...)
	r.Row = rowNum
	return r
}

// RenderRows builds the sheet contents for a record set: the header row
// followed by one row per record. Each row starts from the record's raw
// source row so unmapped columns survive, then mapped fields are overwritten.
func RenderRows(header []string, idx domain.FieldIndex, records []domain.Record) [][]string {
	width := len(header)
	for _, col := range idx {
		if col+1 > width {
			width = col + 1
		}
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), header...))

	for _, r := range records {
		row := make([]string, width)
		copy(row, r.Raw)
		for f, col := range idx {
			row[col] = r.Get(f)
		}
		rows = append(rows, row)
	}

	return rows
}

func identityCoverage(n int) []int {
	coverage := make([]int, n)
	for i := range coverage {
		coverage[i] = i
	}
	return coverage
}

// assembleCanonical replaces every cluster with its merged record, placed at
// the position of the cluster's earliest member. Records outside any cluster
// pass through unchanged. Every input record must end up covered by exactly
// one canonical record.
func assembleCanonical(records []domain.Record, clusters []domain.Cluster, merged []domain.Record) ([]domain.Record, []int, error) {
	if len(clusters) != len(merged) {
		return nil, nil, fmt.Errorf("%w: %d clusters but %d merged records", domain.ErrInvariantViolation, len(clusters), len(merged))
	}

	clusterOf := make([]int, len(records))
	for i := range clusterOf {
		clusterOf[i] = -1
	}
	first := make([]int, len(clusters))
	for c, cluster := range clusters {
		if len(cluster.Members) == 0 {
			return nil, nil, fmt.Errorf("%w: empty duplicate cluster", domain.ErrInvariantViolation)
		}
		first[c] = cluster.Members[0]
		for _, m := range cluster.Members {
			if m < 0 || m >= len(records) {
				return nil, nil, fmt.Errorf("%w: cluster member %d out of range", domain.ErrInvariantViolation, m)
			}
			if clusterOf[m] != -1 {
				return nil, nil, fmt.Errorf("%w: record %d is in more than one cluster", domain.ErrInvariantViolation, m)
			}
			clusterOf[m] = c
			if m < first[c] {
				first[c] = m
			}
		}
	}

	canonical := make([]domain.Record, 0, len(records))
	coverage := make([]int, len(records))
	for i, r := range records {
		c := clusterOf[i]
		switch {
		case c == -1:
			coverage[i] = len(canonical)
			canonical = append(canonical, r)
		case first[c] == i:
			pos := len(canonical)
			for _, m := range clusters[c].Members {
				coverage[m] = pos
			}
			canonical = append(canonical, merged[c])
		}
	}

	return canonical, coverage, nil
}
