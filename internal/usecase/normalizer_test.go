package usecase

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celiapp/catalog/internal/domain"
)

func TestNormalizeSubcategory(t *testing.T) {
	n := NewNormalizer(false)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"exact alias", "Beer & Cider", "Beer"},
		{"exact alias with padding", "  Red Wine ", "Red Wines"},
		{"canonical maps to itself", "Red Wines", "Red Wines"},
		{"case difference resolved by fuzzy match", "red wine", "Red Wines"},
		{"fuzzy match above threshold", "Beer and Ciders", "Beer"},
		{"fuzzy match on gift spelling", "Gift Sampler", "Gifts and Samplers"},
		{"below threshold passes through", "Whiskies", "Whiskies"},
		{"unknown passes through trimmed", " Craft Kombucha ", "Craft Kombucha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeSubcategory(tt.input))
		})
	}
}

func TestNormalizeSubcategory_Idempotent(t *testing.T) {
	n := NewNormalizer(false)
	f := gofakeit.New(7)

	inputs := []string{"Beer and Ciders", "red wine", "Gift Sampler"}
	for _, a := range subcategoryAliases {
		inputs = append(inputs, a.from, a.to)
	}
	for i := 0; i < 300; i++ {
		inputs = append(inputs, f.Word()+" "+f.Word(), f.BeerStyle(), f.BeerName())
	}

	for _, in := range inputs {
		once := n.NormalizeSubcategory(in)
		twice := n.NormalizeSubcategory(once)
		if once != twice {
			t.Fatalf("NormalizeSubcategory not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeBrand(t *testing.T) {
	n := NewNormalizer(false)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"alias", "Baileys", "Bailey's"},
		{"alias with padding", " Jack Daniels ", "Jack Daniel's"},
		{"sub-brand collapses", "Crown Royal Special Reserve", "Crown Royal"},
		{"no fuzzy fallback", "jack daniels", "jack daniels"},
		{"unknown brand trimmed", "Steam Whistle  ", "Steam Whistle"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeBrand(tt.input))
		})
	}
}

func TestNormalizeBrand_Idempotent(t *testing.T) {
	n := NewNormalizer(false)
	f := gofakeit.New(11)

	inputs := []string{}
	for from, to := range brandAliases {
		inputs = append(inputs, from, to)
	}
	for i := 0; i < 300; i++ {
		inputs = append(inputs, f.Company(), " "+f.LastName()+"'s ")
	}

	for _, in := range inputs {
		once := n.NormalizeBrand(in)
		if twice := n.NormalizeBrand(once); once != twice {
			t.Fatalf("NormalizeBrand not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeRecords(t *testing.T) {
	n := NewNormalizer(false)
	input := []domain.Record{
		rec("brand_name", "Baileys", "product_name", "Original", "subcategory", "Cream Liqueurs"),
		rec("brand_name", "Unknown", "product_name", "Thing"),
	}

	out := n.NormalizeRecords(input)

	require.Len(t, out, 2)
	assert.Equal(t, "Bailey's", out[0].Get(domain.FieldBrandName))
	assert.Equal(t, "Cream Liqueur", out[0].Get(domain.FieldSubcategory))
	assert.Equal(t, "Original", out[0].Get(domain.FieldProductName))
	assert.False(t, out[1].Has(domain.FieldSubcategory))

	// Input is untouched
	assert.Equal(t, "Baileys", input[0].Get(domain.FieldBrandName))
}

func TestChooseBestBrandName(t *testing.T) {
	tests := []struct {
		name         string
		alternatives []string
		want         string
	}{
		{"empty", nil, ""},
		{"single", []string{"Absolut"}, "Absolut"},
		{"apostrophe wins", []string{"BAILEYS", "Baileys", "Bailey's"}, "Bailey's"},
		{"curly apostrophe counts", []string{"Jack Daniels", "Jack Daniel’s"}, "Jack Daniel’s"},
		{"title case beats all caps", []string{"ABSOLUT", "Absolut"}, "Absolut"},
		{"title case beats lower case", []string{"absolut", "Absolut"}, "Absolut"},
		{"double space penalized", []string{"Crown  Royal", "Crown Royal"}, "Crown Royal"},
		{"fewer words preferred", []string{"Grey Goose Vodka", "Grey Goose"}, "Grey Goose"},
		{"tie keeps first", []string{"Alpha Beta", "Alpha Gamma"}, "Alpha Beta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseBestBrandName(tt.alternatives))
		})
	}
}

func TestConsolidateBrands(t *testing.T) {
	n := NewNormalizer(false)
	input := []domain.Record{
		product("JACK DANIELS", "Old No. 7"),
		product("Jack Daniel's", "Honey"),
		product("jack daniels", "Fire"),
		product("JACK DANIELS", "Rye"),
		product("Absolut", "Citron"),
	}

	out, changes := n.ConsolidateBrands(input)

	require.Len(t, out, len(input))
	for i := 0; i < 4; i++ {
		assert.Equal(t, "Jack Daniel's", out[i].Get(domain.FieldBrandName), "record %d", i)
	}
	assert.Equal(t, "Absolut", out[4].Get(domain.FieldBrandName))

	assert.Equal(t, []domain.BrandConsolidation{
		{From: "JACK DANIELS", To: "Jack Daniel's", Count: 2},
		{From: "jack daniels", To: "Jack Daniel's", Count: 1},
	}, changes)

	assert.Equal(t, "JACK DANIELS", input[0].Get(domain.FieldBrandName))
}

func TestConsolidateBrands_NoAlternatives(t *testing.T) {
	n := NewNormalizer(false)
	input := []domain.Record{product("Absolut", "Citron"), product("", "Loose")}

	out, changes := n.ConsolidateBrands(input)

	assert.Empty(t, changes)
	assert.Equal(t, input, out)
}

func TestBrandInventory(t *testing.T) {
	n := NewNormalizer(false)
	input := []domain.Record{
		product("Bailey's", "Original"),
		product("Baileys", "Salted Caramel"),
		product("Bailey's", "Tiramisu"),
		product("Absolut", "Citron"),
		product("", "Nameless"),
	}

	unique, alternatives := n.BrandInventory(input)

	assert.Equal(t, 3, unique)
	assert.Equal(t, []domain.BrandAlternatives{
		{Key: "baileys", Forms: []string{"Bailey's", "Baileys"}},
	}, alternatives)
}
