package usecase

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celiapp/catalog/internal/domain"
)

func members(clusters []domain.Cluster) [][]int {
	out := make([][]int, len(clusters))
	for i, c := range clusters {
		out[i] = c.Members
	}
	return out
}

func TestNewDuplicateGrouper_Defaults(t *testing.T) {
	g := NewDuplicateGrouper(GrouperConfig{})

	assert.Equal(t, DuplicateModeExact, g.mode)
	assert.Equal(t, ClusterPolicyStar, g.policy)
	assert.Equal(t, 0.9, g.threshold)
}

func TestDuplicateGrouper_Exact(t *testing.T) {
	g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeExact})

	t.Run("clusters on case-insensitive trimmed brand and product", func(t *testing.T) {
		records := []domain.Record{
			product("Absolut", "Citron"),
			product("Bacardi", "Superior"),
			product(" absolut ", "CITRON "),
			product("Bacardi", "Superior"),
			product("Bacardi", "Gold"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 2}, {1, 3}}, members(clusters))
		assert.Equal(t, "CITRON ", clusters[0].Records[1].Get(domain.FieldProductName))
	})

	t.Run("records missing brand or product never cluster", func(t *testing.T) {
		records := []domain.Record{
			product("", "Citron"),
			product("", "Citron"),
			product("Absolut", ""),
			product("Absolut", "  "),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Empty(t, clusters)
	})

	t.Run("no duplicates", func(t *testing.T) {
		clusters, err := g.Group([]domain.Record{product("A", "x"), product("B", "y")})

		require.NoError(t, err)
		assert.Empty(t, clusters)
	})
}

func TestDuplicateGrouper_Fuzzy(t *testing.T) {
	t.Run("similar names within a brand cluster", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy})
		records := []domain.Record{
			product("Bailey's", "Original Irish Cream"),
			product("Bailey's", "Salted Caramel"),
			product("Bailey's", "Original Irish Creme"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 2}}, members(clusters))
	})

	t.Run("different brands never cluster", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy})
		records := []domain.Record{
			product("Bailey's", "Original Irish Cream"),
			product("Carolans", "Original Irish Cream"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Empty(t, clusters)
	})

	t.Run("brand bucket is case-insensitive", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy})
		records := []domain.Record{
			product("SMIRNOFF", "No. 21 Vodka"),
			product("Smirnoff", "No. 21 Vodka"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1}}, members(clusters))
	})

	t.Run("empty product names are skipped", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy})
		records := []domain.Record{
			product("Absolut", ""),
			product("Absolut", ""),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Empty(t, clusters)
	})

	t.Run("records without a brand share one bucket", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy, Threshold: 0.85})
		records := []domain.Record{
			product("", "Pinot Noir 750ml"),
			product("Absolut", "Pinot Noir 750ml"),
			product("", "Pinot Noir 750 ml"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 2}}, members(clusters))
	})

	t.Run("exact mode still ignores records without a brand", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeExact})
		records := []domain.Record{
			product("", "Pinot Noir 750ml"),
			product("", "Pinot Noir 750ml"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Empty(t, clusters)
	})

	t.Run("clusters ordered by first member across buckets", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy})
		records := []domain.Record{
			product("B", "Coconut"),
			product("A", "Silver Tequila"),
			product("A", "Silver Tequila"),
			product("B", "Gold Rum"),
			product("B", "Gold Rum"),
		}

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{1, 2}, {3, 4}}, members(clusters))
	})
}

func TestDuplicateGrouper_ClusterPolicy(t *testing.T) {
	// A~B and B~C score 0.8, A~C scores 0.6
	records := []domain.Record{
		product("X", "abcdefghij"),
		product("X", "abcdefghxy"),
		product("X", "abcdefxyzw"),
	}

	t.Run("star sweep leaves the far end of a chain out", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{Mode: DuplicateModeFuzzy, Threshold: 0.8})

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1}}, members(clusters))
	})

	t.Run("transitive policy follows the chain", func(t *testing.T) {
		g := NewDuplicateGrouper(GrouperConfig{
			Mode:      DuplicateModeFuzzy,
			Policy:    ClusterPolicyTransitive,
			Threshold: 0.8,
		})

		clusters, err := g.Group(records)

		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 2}}, members(clusters))
	})
}

func TestDuplicateGrouper_UnknownMode(t *testing.T) {
	g := NewDuplicateGrouper(GrouperConfig{Mode: "phonetic"})

	_, err := g.Group([]domain.Record{product("A", "b")})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestDuplicateGrouper_ExactPartition(t *testing.T) {
	f := gofakeit.New(3)
	brands := []string{"Absolut", "ABSOLUT", "Bacardi", "Malibu", "", " Malibu"}
	names := []string{"Citron", "citron", "Gold", "Coconut", "", "Original"}

	records := make([]domain.Record, 400)
	for i := range records {
		records[i] = product(f.RandomString(brands), f.RandomString(names))
	}

	clusters, err := NewDuplicateGrouper(GrouperConfig{}).Group(records)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, c := range clusters {
		require.GreaterOrEqual(t, c.Size(), 2)
		key := ExactKey(records[c.Members[0]])
		require.NotEmpty(t, key)
		for _, m := range c.Members {
			require.False(t, seen[m], "record %d in more than one cluster", m)
			seen[m] = true
			assert.Equal(t, key, ExactKey(records[m]))
		}
	}

	// Every keyed record whose key repeats is in some cluster
	counts := make(map[string]int)
	for _, r := range records {
		if k := ExactKey(r); k != "" {
			counts[k]++
		}
	}
	for i, r := range records {
		if k := ExactKey(r); k != "" && counts[k] > 1 {
			assert.True(t, seen[i], "record %d with repeated key %q not clustered", i, k)
		}
	}
}
