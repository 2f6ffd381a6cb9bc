package usecase

import (
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/celiapp/catalog/internal/domain"
)

// subcategoryFuzzyThreshold is the similarity a subcategory must exceed to
// adopt a table key's canonical value
const subcategoryFuzzyThreshold = 0.9

// Brand representative scoring
const (
	apostropheBonus = 10
	allCapsPenalty  = 5
	titleCaseBonus  = 5
)

// quoteRemover strips apostrophes and quote marks, straight and curly
var quoteRemover = runes.Remove(runes.Predicate(func(r rune) bool {
	switch r {
	case '\'', '"', '‘', '’', '“', '”', '`', '´':
		return true
	}
	return false
}))

// Normalizer canonicalizes brand and subcategory strings
type Normalizer struct {
	enableDebugLogging bool
}

// NewNormalizer creates a new normalizer
func NewNormalizer(enableDebugLogging bool) *Normalizer {
	return &Normalizer{enableDebugLogging: enableDebugLogging}
}

// NormalizeSubcategory maps a subcategory to its canonical value.
// Exact table hits win; otherwise the closest table key is used when its
// similarity exceeds 0.9. Unknown values come back trimmed.
func (n *Normalizer) NormalizeSubcategory(subcategory string) string {
	cleaned := strings.TrimSpace(subcategory)
	if cleaned == "" {
		return ""
	}

	if canonical, ok := subcategoryIndex[cleaned]; ok {
		return canonical
	}

	bestScore := 0.0
	best := ""
	for _, a := range subcategoryAliases {
		score := Similarity(cleaned, a.from)
		if score > bestScore {
			bestScore = score
			best = a.to
		}
	}

	if bestScore > subcategoryFuzzyThreshold {
		if n.enableDebugLogging {
			log.Printf("[NORMALIZE] Subcategory %q -> %q (similarity %.3f)", cleaned, best, bestScore)
		}
		return best
	}

	return cleaned
}

// NormalizeBrand maps a brand to its house spelling by exact lookup only.
// Short brand names sit too close together for fuzzy aliasing to be safe.
func (n *Normalizer) NormalizeBrand(brand string) string {
	cleaned := strings.TrimSpace(brand)
	if canonical, ok := brandAliases[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// NormalizeRecords applies brand and subcategory normalization to every record
func (n *Normalizer) NormalizeRecords(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		c := r.Clone()
		c.Set(domain.FieldBrandName, n.NormalizeBrand(r.Get(domain.FieldBrandName)))
		c.Set(domain.FieldSubcategory, n.NormalizeSubcategory(r.Get(domain.FieldSubcategory)))
		out[i] = c
	}
	return out
}

// brandGroup collects distinct surface forms for one normalized key
type brandGroup struct {
	key   string
	forms []string
	seen  map[string]bool
}

// groupBrands groups distinct brand spellings by normalized key, in encounter order
func groupBrands(records []domain.Record) []*brandGroup {
	byKey := make(map[string]*brandGroup)
	var groups []*brandGroup

	for _, r := range records {
		brand := r.Get(domain.FieldBrandName)
		if brand == "" {
			continue
		}
		key := brandKey(brand)
		g, ok := byKey[key]
		if !ok {
			g = &brandGroup{key: key, seen: make(map[string]bool)}
			byKey[key] = g
			groups = append(groups, g)
		}
		if !g.seen[brand] {
			g.seen[brand] = true
			g.forms = append(g.forms, brand)
		}
	}

	return groups
}

// ConsolidateBrands rewrites alternative spellings of the same brand to the
// best-scoring spelling. Returns the updated records and one entry per
// rewritten spelling.
func (n *Normalizer) ConsolidateBrands(records []domain.Record) ([]domain.Record, []domain.BrandConsolidation) {
	mapping := make(map[string]string)
	var order []string

	for _, g := range groupBrands(records) {
		if len(g.forms) < 2 {
			continue
		}
		best := ChooseBestBrandName(g.forms)
		for _, form := range g.forms {
			if form != best {
				mapping[form] = best
				order = append(order, form)
			}
		}
		if n.enableDebugLogging {
			log.Printf("[NORMALIZE] Brand alternatives for %q: %v -> %q", g.key, g.forms, best)
		}
	}

	counts := make(map[string]int)
	out := make([]domain.Record, len(records))
	for i, r := range records {
		brand := r.Get(domain.FieldBrandName)
		if to, ok := mapping[brand]; ok {
			c := r.Clone()
			c.Set(domain.FieldBrandName, to)
			out[i] = c
			counts[brand]++
			continue
		}
		out[i] = r
	}

	changes := make([]domain.BrandConsolidation, 0, len(order))
	for _, from := range order {
		changes = append(changes, domain.BrandConsolidation{From: from, To: mapping[from], Count: counts[from]})
	}

	return out, changes
}

// BrandInventory returns the number of distinct brands and the groups of
// spellings that share a normalized key
func (n *Normalizer) BrandInventory(records []domain.Record) (int, []domain.BrandAlternatives) {
	unique := 0
	var alternatives []domain.BrandAlternatives

	for _, g := range groupBrands(records) {
		unique += len(g.forms)
		if len(g.forms) > 1 {
			alternatives = append(alternatives, domain.BrandAlternatives{
				Key:   g.key,
				Forms: append([]string(nil), g.forms...),
			})
		}
	}

	return unique, alternatives
}

// ChooseBestBrandName picks the preferred spelling among alternatives.
// Ties go to the earliest candidate.
func ChooseBestBrandName(alternatives []string) string {
	if len(alternatives) == 0 {
		return ""
	}

	best := alternatives[0]
	bestScore := scoreBrandName(best)
	for _, candidate := range alternatives[1:] {
		if s := scoreBrandName(candidate); s > bestScore {
			best = candidate
			bestScore = s
		}
	}
	return best
}

// scoreBrandName rates a brand spelling: apostrophes and title case are
// preferred, all caps, extra words and double spaces are penalized
func scoreBrandName(brand string) int {
	score := 0

	if strings.ContainsAny(brand, "'’") {
		score += apostropheBonus
	}

	if isAllUpper(brand) {
		score -= allCapsPenalty
	} else if first, _ := utf8.DecodeRuneInString(brand); unicode.IsUpper(first) {
		score += titleCaseBonus
	}

	score -= len(strings.Fields(brand))
	score -= strings.Count(brand, "  ")

	return score
}

// isAllUpper reports whether s has at least one cased letter and no lower-case ones
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// brandKey is the grouping key for brand consolidation: lower-cased with
// apostrophes and quotes removed
func brandKey(brand string) string {
	key, _, err := transform.String(quoteRemover, strings.ToLower(strings.TrimSpace(brand)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(brand))
	}
	return key
}
