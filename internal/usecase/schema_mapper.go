package usecase

import (
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/celiapp/catalog/internal/domain"
)

// headerRule maps a cleaned header onto a canonical field when match returns true
type headerRule struct {
	field domain.Field
	match func(h string) bool
}

// headerRules are evaluated in order for every header; the first match wins
var headerRules = []headerRule{
	{domain.FieldBrandName, func(h string) bool {
		return strings.Contains(h, "brand") && (strings.Contains(h, "name") || h == "brand")
	}},
	{domain.FieldProductName, func(h string) bool {
		return strings.Contains(h, "product") && (strings.Contains(h, "name") || h == "product")
	}},
	{domain.FieldDescriptors, func(h string) bool {
		return strings.Contains(h, "descriptor")
	}},
	{domain.FieldGlutenFreeScore, func(h string) bool {
		return strings.Contains(h, "gluten") && strings.Contains(h, "score")
	}},
	{domain.FieldGlutenFreeScore, func(h string) bool {
		return strings.Contains(h, "gluten") && strings.Contains(h, "free")
	}},
	{domain.FieldID, func(h string) bool {
		return h == "id"
	}},
	{domain.FieldSourceID, func(h string) bool {
		return (strings.Contains(h, "lcbo") || strings.Contains(h, "source")) && strings.Contains(h, "id")
	}},
	{domain.FieldImageURL, func(h string) bool {
		return strings.Contains(h, "image") && strings.Contains(h, "url")
	}},
	{domain.FieldPrice, func(h string) bool {
		return strings.Contains(h, "price")
	}},
	{domain.FieldCategory, func(h string) bool {
		return strings.Contains(h, "category") && !strings.Contains(h, "sub")
	}},
	{domain.FieldSubcategory, func(h string) bool {
		return strings.Contains(h, "subcategory") || (strings.Contains(h, "sub") && strings.Contains(h, "category"))
	}},
	{domain.FieldSource, func(h string) bool {
		return strings.Contains(h, "source")
	}},
}

// SchemaMapper infers a Field Index from header text
type SchemaMapper struct {
	enableDebugLogging bool
}

// NewSchemaMapper creates a new schema mapper
func NewSchemaMapper(enableDebugLogging bool) *SchemaMapper {
	return &SchemaMapper{enableDebugLogging: enableDebugLogging}
}

// Map builds a Field Index from a header row.
// Each header maps to at most one field (first matching rule), and each
// field keeps its leftmost column; later headers resolving to an already
// mapped field are reported as duplicates. An empty header row is an
// ErrSchema.
func (m *SchemaMapper) Map(headers []string) (*domain.SchemaReport, error) {
	if isBlankRow(headers) {
		return nil, fmt.Errorf("%w: header row is empty", domain.ErrSchema)
	}

	report := &domain.SchemaReport{Index: make(domain.FieldIndex)}

	for col, header := range headers {
		cleaned := cleanHeader(header)
		if cleaned == "" {
			continue
		}

		field, ok := matchHeader(cleaned)
		if !ok {
			report.UnmatchedHeaders = append(report.UnmatchedHeaders, header)
			continue
		}

		if existing, taken := report.Index[field]; taken {
			report.DuplicateHeaders = append(report.DuplicateHeaders, header)
			if m.enableDebugLogging {
				log.Printf("[SCHEMA] Header %q at column %d also maps to %s (kept column %d)", header, col, field, existing)
			}
			continue
		}

		report.Index[field] = col
		if m.enableDebugLogging {
			log.Printf("[SCHEMA] Found %s column at position %d: %q", field, col, header)
		}
	}

	for _, f := range domain.CanonicalFields {
		if _, ok := report.Index[f]; !ok {
			report.MissingFields = append(report.MissingFields, f)
		}
	}

	return report, nil
}

// cleanHeader lower-cases a header and turns underscores and dashes into spaces.
// NFKC folds full-width letters and non-breaking spaces pasted from other tools.
func cleanHeader(header string) string {
	h := norm.NFKC.String(header)
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.TrimSpace(h)
}

// matchHeader returns the field of the first rule matching the cleaned header
func matchHeader(cleaned string) (domain.Field, bool) {
	for _, rule := range headerRules {
		if rule.match(cleaned) {
			return rule.field, true
		}
	}
	return "", false
}

// isBlankRow reports whether every cell in the row is blank
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
