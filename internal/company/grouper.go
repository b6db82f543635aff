// Package company clusters the storefronts of one panel into companies via
// multi-signal similarity: shared phone, shared email, or product-set
// overlap. Clustering is panel-scoped; company identities are never carried
// across panels.
package company

import (
	"sort"

	"panelfeat/pkg/contracts/domain"
)

// Grouper computes the company clustering of one panel's snapshot set.
type Grouper struct {
	threshold float64
}

// NewGrouper creates a grouper with the given Jaccard similarity threshold.
// Two storefronts link when their product-set similarity strictly exceeds it.
func NewGrouper(threshold float64) *Grouper {
	return &Grouper{threshold: threshold}
}

// Group clusters the panel's storefronts into companies. Storefronts link
// when they share a normalized non-empty phone or email, or when their
// product sets' Jaccard similarity exceeds the threshold; companies are the
// connected components of that relation, so cluster membership is symmetric
// and transitive by construction. Company IDs are assigned 1..n in order of
// each cluster's lexicographically smallest member slug, which makes reruns
// over identical input byte-identical.
func (g *Grouper) Group(panel *domain.Panel) []domain.CompanyCluster {
	slugs := make([]string, 0, len(panel.Snapshots))
	byIndex := make([]*domain.StorefrontSnapshot, 0, len(panel.Snapshots))
	for i := range panel.Snapshots {
		slugs = append(slugs, panel.Snapshots[i].Slug)
		byIndex = append(byIndex, &panel.Snapshots[i])
	}
	// Iterate in slug order so the union-find sees links in a fixed order
	// regardless of input file ordering.
	order := make([]int, len(slugs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return slugs[order[a]] < slugs[order[b]] })

	ds := newDisjointSet(len(slugs))

	// Exact-match pre-filter: phone and email links come from hash lookups so
	// the quadratic Jaccard comparison only runs on product sets.
	phoneFirst := make(map[string]int)
	emailFirst := make(map[string]int)
	var productIdx []int
	for _, i := range order {
		snap := byIndex[i]
		if snap.Phone != "" {
			if first, ok := phoneFirst[snap.Phone]; ok {
				ds.union(first, i)
			} else {
				phoneFirst[snap.Phone] = i
			}
		}
		if snap.Email != "" {
			if first, ok := emailFirst[snap.Email]; ok {
				ds.union(first, i)
			} else {
				emailFirst[snap.Email] = i
			}
		}
		if len(snap.Products) > 0 {
			productIdx = append(productIdx, i)
		}
	}

	for a := 0; a < len(productIdx); a++ {
		for b := a + 1; b < len(productIdx); b++ {
			i, j := productIdx[a], productIdx[b]
			if ds.find(i) == ds.find(j) {
				continue
			}
			if Jaccard(byIndex[i].Products, byIndex[j].Products) > g.threshold {
				ds.union(i, j)
			}
		}
	}

	// Collect components and assign deterministic IDs.
	members := make(map[int][]string)
	for i, slug := range slugs {
		root := ds.find(i)
		members[root] = append(members[root], slug)
	}

	clusters := make([]domain.CompanyCluster, 0, len(members))
	for _, slugSet := range members {
		sort.Strings(slugSet)
		clusters = append(clusters, domain.CompanyCluster{
			PanelDate: panel.Date,
			Slugs:     slugSet,
		})
	}
	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].Slugs[0] < clusters[b].Slugs[0]
	})
	for i := range clusters {
		clusters[i].ID = i + 1
	}
	return clusters
}

// Jaccard computes the Jaccard similarity of two product sets. Two empty sets
// have similarity 0, so malformed product data can never link storefronts.
func Jaccard(a, b domain.ProductSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for id := range small {
		if _, ok := large[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// disjointSet is a union-find structure over snapshot indices, with path
// compression and union by rank.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(i int) int {
	for ds.parent[i] != i {
		ds.parent[i] = ds.parent[ds.parent[i]]
		i = ds.parent[i]
	}
	return i
}

func (ds *disjointSet) union(a, b int) {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return
	}
	if ds.rank[ra] < ds.rank[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	if ds.rank[ra] == ds.rank[rb] {
		ds.rank[ra]++
	}
}
