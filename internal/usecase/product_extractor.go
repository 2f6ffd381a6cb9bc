package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/celiapp/catalog/internal/domain"
)

// minProductNameLength is the shortest product name considered descriptive
const minProductNameLength = 3

// Compiled regex patterns for product name cleanup
var (
	// Matches a dash separator left at the start of a name, e.g. "- Original"
	leadingDashPattern = regexp.MustCompile(`^\s*[-–—]\s*`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)

	// One word-bounded, case-insensitive pattern per product type, in productTypes order
	productTypePatterns = func() []*regexp.Regexp {
		patterns := make([]*regexp.Regexp, len(productTypes))
		for i, t := range productTypes {
			patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`)
		}
		return patterns
	}()
)

// ProductExtractor fills missing product names from brand and subcategory text
type ProductExtractor struct {
	enableDebugLogging bool
}

// NewProductExtractor creates a new product extractor
func NewProductExtractor(enableDebugLogging bool) *ProductExtractor {
	return &ProductExtractor{enableDebugLogging: enableDebugLogging}
}

// IsValidProductName reports whether a product name is descriptive: at least
// three characters and not a generic placeholder such as "other"
func IsValidProductName(name string) bool {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return false
	}
	if placeholderNames[strings.ToLower(cleaned)] {
		return false
	}
	return utf8.RuneCountInString(cleaned) >= minProductNameLength
}

// formatProductType title-cases a product type, upper-casing acronyms and
// varietals written that way on labels
func formatProductType(s string) string {
	if upperCaseProducts[strings.ToLower(s)] {
		return strings.ToUpper(s)
	}
	// Casers hold state; one per call keeps this safe for concurrent use
	return cases.Title(language.English).String(s)
}

// ExtractProductFromBrandName splits a brand string that embeds a product
// type, e.g. "Steam Whistle Pilsner" -> ("Steam Whistle", "Pilsner").
// Returns the brand unchanged and "" when no known type appears as a word.
func ExtractProductFromBrandName(brand string) (string, string) {
	if strings.TrimSpace(brand) == "" {
		return "", ""
	}

	for _, pattern := range productTypePatterns {
		loc := pattern.FindStringIndex(brand)
		if loc == nil {
			continue
		}
		brandPart := strings.TrimRight(strings.TrimSpace(brand[:loc[0]]), " -–—")
		productPart := formatProductType(strings.TrimSpace(brand[loc[0]:loc[1]]))
		return strings.TrimSpace(brandPart), productPart
	}

	return brand, ""
}

// ExtractProductFromSubcategory derives a product name from a subcategory,
// e.g. "pale ale," -> "Pale Ale"
func ExtractProductFromSubcategory(subcategory string) string {
	cleaned := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(subcategory), ","))
	if utf8.RuneCountInString(cleaned) <= 1 {
		return ""
	}
	return formatProductType(cleaned)
}

// SplitBrandFromProductName removes an embedded brand from a product name,
// e.g. ("Bailey's", "Bailey's - Original Irish Cream") -> "Original Irish Cream".
// The product name is returned unchanged when it does not contain the brand
// or would be empty without it.
func SplitBrandFromProductName(brand, product string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" || !strings.Contains(strings.ToLower(product), strings.ToLower(brand)) {
		return product
	}

	brandPattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(brand))
	cleaned := brandPattern.ReplaceAllString(product, "")
	cleaned = leadingDashPattern.ReplaceAllString(strings.TrimSpace(cleaned), "")
	cleaned = strings.TrimSpace(multiSpacePattern.ReplaceAllString(cleaned, " "))

	if cleaned == "" {
		return product
	}
	return cleaned
}

// FillMissingProductNames gives records without a valid product name one
// taken from the brand string, or failing that from the subcategory.
// A brand-derived name also shortens the brand to the part before the type.
// Returns the updated records and the number of names filled.
func (e *ProductExtractor) FillMissingProductNames(records []domain.Record) ([]domain.Record, int) {
	filled := 0
	out := make([]domain.Record, len(records))

	for i, r := range records {
		out[i] = r
		if IsValidProductName(r.Get(domain.FieldProductName)) {
			continue
		}

		brand := r.Get(domain.FieldBrandName)
		if newBrand, product := ExtractProductFromBrandName(brand); IsValidProductName(product) {
			c := r.Clone()
			if newBrand != "" {
				c.Set(domain.FieldBrandName, newBrand)
			}
			c.Set(domain.FieldProductName, product)
			out[i] = c
			filled++
			if e.enableDebugLogging {
				log.Printf("[EXTRACT] Extracted product %q from brand %q", product, brand)
			}
			continue
		}

		subcategory := r.Get(domain.FieldSubcategory)
		if product := ExtractProductFromSubcategory(subcategory); IsValidProductName(product) {
			c := r.Clone()
			c.Set(domain.FieldProductName, product)
			out[i] = c
			filled++
			if e.enableDebugLogging {
				log.Printf("[EXTRACT] Extracted product %q from subcategory %q", product, subcategory)
			}
			continue
		}

		if e.enableDebugLogging && brand != "" {
			log.Printf("[EXTRACT] Could not determine a product name for brand %q", brand)
		}
	}

	return out, filled
}

// StripBrandFromProductNames removes the record's own brand from its product
// name wherever it is embedded. Returns the updated records and the number
// of names changed.
func (e *ProductExtractor) StripBrandFromProductNames(records []domain.Record) ([]domain.Record, int) {
	stripped := 0
	out := make([]domain.Record, len(records))

	for i, r := range records {
		out[i] = r
		product := r.Get(domain.FieldProductName)
		cleaned := SplitBrandFromProductName(r.Get(domain.FieldBrandName), product)
		if cleaned == product {
			continue
		}
		c := r.Clone()
		c.Set(domain.FieldProductName, cleaned)
		out[i] = c
		stripped++
		if e.enableDebugLogging {
			log.Printf("[EXTRACT] Stripped brand from product %q -> %q", product, cleaned)
		}
	}

	return out, stripped
}
