package usecase

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/celiapp/catalog/internal/domain"
)

// DuplicateMode selects how duplicate candidates are matched
type DuplicateMode string

const (
	// DuplicateModeExact matches on case-insensitive brand and product name equality
	DuplicateModeExact DuplicateMode = "exact"
	// DuplicateModeFuzzy matches product names by similarity within a brand
	DuplicateModeFuzzy DuplicateMode = "fuzzy"
)

// ClusterPolicy selects how fuzzy matches are turned into clusters
type ClusterPolicy string

const (
	// ClusterPolicyStar grows each cluster around its first unclaimed record.
	// Members are similar to that record but not necessarily to each other.
	ClusterPolicyStar ClusterPolicy = "star"
	// ClusterPolicyTransitive joins every pair above threshold and takes the
	// connected components, so similarity chains end up in one cluster.
	ClusterPolicyTransitive ClusterPolicy = "transitive"
)

// defaultFuzzyDuplicateThreshold applies when no threshold is configured
const defaultFuzzyDuplicateThreshold = 0.9

// GrouperConfig holds configuration for the duplicate grouper
type GrouperConfig struct {
	Mode               DuplicateMode
	Policy             ClusterPolicy
	Threshold          float64
	EnableDebugLogging bool
}

// DuplicateGrouper partitions records into duplicate clusters
type DuplicateGrouper struct {
	mode               DuplicateMode
	policy             ClusterPolicy
	threshold          float64
	enableDebugLogging bool
}

// NewDuplicateGrouper creates a grouper; zero values fall back to exact mode,
// star clustering and a 0.9 threshold
func NewDuplicateGrouper(config GrouperConfig) *DuplicateGrouper {
	mode := config.Mode
	if mode == "" {
		mode = DuplicateModeExact
	}

	policy := config.Policy
	if policy == "" {
		policy = ClusterPolicyStar
	}

	threshold := config.Threshold
	if threshold <= 0 {
		threshold = defaultFuzzyDuplicateThreshold
	}

	return &DuplicateGrouper{
		mode:               mode,
		policy:             policy,
		threshold:          threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Mode returns the active duplicate mode
func (g *DuplicateGrouper) Mode() DuplicateMode {
	return g.mode
}

// Group returns the duplicate clusters in the record set.
// Clusters are disjoint, contain at least two records and appear in the order
// of their first member.
func (g *DuplicateGrouper) Group(records []domain.Record) ([]domain.Cluster, error) {
	var groups [][]int
	comparisons := 0
	switch g.mode {
	case DuplicateModeExact:
		groups = g.groupExact(records)
	case DuplicateModeFuzzy:
		groups = g.groupFuzzy(records, &comparisons)
	default:
		return nil, fmt.Errorf("%w: unknown duplicate mode %q", domain.ErrInvalidRequest, g.mode)
	}

	clusters := make([]domain.Cluster, 0, len(groups))
	for _, members := range groups {
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: empty duplicate cluster", domain.ErrInvariantViolation)
		}
		c := domain.Cluster{Members: members, Records: make([]domain.Record, len(members))}
		for i, idx := range members {
			c.Records[i] = records[idx]
		}
		clusters = append(clusters, c)
	}

	if g.enableDebugLogging {
		log.Printf("[DEDUPE] Found %d duplicate groups (%s mode, %d comparisons)", len(clusters), g.mode, comparisons)
	}

	return clusters, nil
}

// ExactKey is the exact-mode matching key, or "" when the record cannot form one
func ExactKey(r domain.Record) string {
	brand := strings.ToLower(strings.TrimSpace(r.Get(domain.FieldBrandName)))
	product := strings.ToLower(strings.TrimSpace(r.Get(domain.FieldProductName)))
	if brand == "" || product == "" {
		return ""
	}
	return brand + "|" + product
}

// groupExact clusters records sharing an exact key
func (g *DuplicateGrouper) groupExact(records []domain.Record) [][]int {
	byKey := make(map[string][]int)
	var keys []string

	for i, r := range records {
		key := ExactKey(r)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], i)
	}

	var groups [][]int
	for _, key := range keys {
		if members := byKey[key]; len(members) > 1 {
			if g.enableDebugLogging {
				log.Printf("[DEDUPE] Exact duplicate %q: %d entries", key, len(members))
			}
			groups = append(groups, members)
		}
	}
	return groups
}

// brandBuckets partitions record positions by lower-cased brand, in encounter
// order. Records without a brand share the "" bucket.
func brandBuckets(records []domain.Record) [][]int {
	byBrand := make(map[string]int)
	var buckets [][]int

	for i, r := range records {
		brand := strings.ToLower(r.Get(domain.FieldBrandName))
		pos, ok := byBrand[brand]
		if !ok {
			pos = len(buckets)
			byBrand[brand] = pos
			buckets = append(buckets, nil)
		}
		buckets[pos] = append(buckets[pos], i)
	}
	return buckets
}

// groupFuzzy clusters similar product names within each brand bucket.
// Cross-brand matching is left to brand normalization.
func (g *DuplicateGrouper) groupFuzzy(records []domain.Record, comparisons *int) [][]int {
	var groups [][]int

	for _, bucket := range brandBuckets(records) {
		if len(bucket) <= 1 {
			continue
		}
		if g.policy == ClusterPolicyTransitive {
			groups = append(groups, g.transitiveSweep(records, bucket, comparisons)...)
		} else {
			groups = append(groups, g.starSweep(records, bucket, comparisons)...)
		}
	}

	return sortGroupsByFirstMember(groups)
}

// starSweep runs the single left-to-right pass: each unclaimed record claims
// every later unclaimed record whose product name is similar enough
func (g *DuplicateGrouper) starSweep(records []domain.Record, bucket []int, comparisons *int) [][]int {
	var groups [][]int
	claimed := make([]bool, len(bucket))

	for i := range bucket {
		if claimed[i] {
			continue
		}
		name1 := records[bucket[i]].Get(domain.FieldProductName)
		if strings.TrimSpace(name1) == "" {
			continue
		}

		members := []int{bucket[i]}
		for j := i + 1; j < len(bucket); j++ {
			if claimed[j] {
				continue
			}
			name2 := records[bucket[j]].Get(domain.FieldProductName)
			if strings.TrimSpace(name2) == "" {
				continue
			}

			score := Similarity(name1, name2)
			*comparisons++
			if score >= g.threshold {
				if g.enableDebugLogging {
					log.Printf("[DEDUPE] Duplicate found (similarity %.3f): %q ~ %q", score, name1, name2)
				}
				members = append(members, bucket[j])
				claimed[j] = true
			}
		}

		if len(members) > 1 {
			claimed[i] = true
			groups = append(groups, members)
		}
	}

	return groups
}

// transitiveSweep compares every pair in the bucket and returns the
// connected components of the above-threshold graph
func (g *DuplicateGrouper) transitiveSweep(records []domain.Record, bucket []int, comparisons *int) [][]int {
	uf := newUnionFind(len(bucket))

	for i := range bucket {
		name1 := records[bucket[i]].Get(domain.FieldProductName)
		if strings.TrimSpace(name1) == "" {
			continue
		}
		for j := i + 1; j < len(bucket); j++ {
			name2 := records[bucket[j]].Get(domain.FieldProductName)
			if strings.TrimSpace(name2) == "" {
				continue
			}
			*comparisons++
			if Similarity(name1, name2) >= g.threshold {
				uf.union(i, j)
			}
		}
	}

	byRoot := make(map[int][]int)
	var roots []int
	for i := range bucket {
		root := uf.find(i)
		if _, ok := byRoot[root]; !ok {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], bucket[i])
	}

	var groups [][]int
	for _, root := range roots {
		if members := byRoot[root]; len(members) > 1 {
			groups = append(groups, members)
		}
	}
	return groups
}

// sortGroupsByFirstMember orders clusters by the position of their first record
func sortGroupsByFirstMember(groups [][]int) [][]int {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}

// unionFind is a disjoint-set forest over 0..n-1
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
