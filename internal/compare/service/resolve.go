package service

import (
	"strings"

	"priceshield/internal/compare/model"
)

// base units per dimension: volume in ml, mass in g, pieces in unid
var unitBase = map[string]struct {
	dim    string
	factor float64
}{
	"ml":   {"ml", 1},
	"l":    {"ml", 1000},
	"lt":   {"ml", 1000},
	"g":    {"g", 1},
	"gr":   {"g", 1},
	"kg":   {"g", 1000},
	"oz":   {"g", 28.3495},
	"lb":   {"g", 453.592},
	"unid": {"unid", 1},
	"und":  {"unid", 1},
}

func baseQuantity(q *model.Quantity) (float64, string, bool) {
	b, ok := unitBase[strings.ToLower(q.Unit)]
	if !ok {
		return 0, "", false
	}
	return q.Value * b.factor, b.dim, true
}

// SameProduct decides whether two signatures denote the same underlying
// product. Brand and quantity mismatches veto regardless of strictness;
// otherwise keyword similarity decides against the strict or relaxed
// threshold.
func (e *Engine) SameProduct(a, b model.Signature, strict bool) bool {
	// brand mismatch is a hard veto
	if a.Brand != "" && b.Brand != "" && a.Brand != b.Brand {
		return false
	}

	// quantity veto, compared in base units so 900ml matches 0.9l.
	// Quantities of different dimensions (ml vs g) are not comparable
	// and do not veto.
	if a.Quantity != nil && b.Quantity != nil {
		va, da, oka := baseQuantity(a.Quantity)
		vb, db, okb := baseQuantity(b.Quantity)
		if oka && okb && da == db {
			max := va
			if vb > max {
				max = vb
			}
			if max > 0 {
				diff := va - vb
				if diff < 0 {
					diff = -diff
				}
				if diff/max > e.opt.QuantityTolerance {
					return false
				}
			}
		}
	}

	// listings without usable keywords can still match on the exact name
	if a.NameNorm != "" && a.NameNorm == b.NameNorm {
		return true
	}

	threshold := e.opt.StrictThreshold
	if !strict {
		threshold = e.opt.RelaxedThreshold
	}
	return e.Similarity(a, b) >= threshold
}

// Similarity counts keywords of A with a match in B, where a match is
// substring containment in either direction. Tolerates singular/plural
// and partial-token variants. Result in [0..1] over the larger set.
func (e *Engine) Similarity(a, b model.Signature) float64 {
	denom := len(a.Keywords)
	if len(b.Keywords) > denom {
		denom = len(b.Keywords)
	}
	if denom == 0 {
		return 0
	}
	matches := 0
	for _, ka := range a.Keywords {
		for _, kb := range b.Keywords {
			if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(denom)
}

// ResolveGroup partitions listings into the same-product group of the
// anchor. Strict matching runs first; when it covers fewer than
// MinStores distinct stores the relaxed pass replaces it, so over-strict
// matching cannot silently hide valid price comparisons.
func (e *Engine) ResolveGroup(listings []model.Listing, anchorIdx int) model.ProductGroup {
	if anchorIdx < 0 || anchorIdx >= len(listings) {
		return model.ProductGroup{}
	}
	sigs := make([]model.Signature, len(listings))
	for i, l := range listings {
		sigs[i] = e.Extract(l.Name)
	}

	group := e.resolveOnce(listings, sigs, anchorIdx, true)
	if countStores(group.Listings) < e.opt.MinStores {
		group = e.resolveOnce(listings, sigs, anchorIdx, false)
	}
	return group
}

func (e *Engine) resolveOnce(listings []model.Listing, sigs []model.Signature, anchorIdx int, strict bool) model.ProductGroup {
	if e.opt.Transitive {
		return e.resolveTransitive(listings, sigs, anchorIdx, strict)
	}
	g := model.ProductGroup{Anchor: sigs[anchorIdx]}
	g.Listings = append(g.Listings, listings[anchorIdx])
	for i := range listings {
		if i == anchorIdx {
			continue
		}
		if e.SameProduct(g.Anchor, sigs[i], strict) {
			g.Listings = append(g.Listings, listings[i])
		}
	}
	return g
}

// resolveTransitive unions every pair satisfying the predicate and
// returns the anchor's component. Guarantees A~B, B~C => same group at
// the cost of quadratic comparisons.
func (e *Engine) resolveTransitive(listings []model.Listing, sigs []model.Signature, anchorIdx int, strict bool) model.ProductGroup {
	parent := make([]int, len(listings))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) { parent[find(a)] = find(b) }

	for i := 0; i < len(listings); i++ {
		for j := i + 1; j < len(listings); j++ {
			if e.SameProduct(sigs[i], sigs[j], strict) {
				union(i, j)
			}
		}
	}

	g := model.ProductGroup{Anchor: sigs[anchorIdx]}
	root := find(anchorIdx)
	for i := range listings {
		if find(i) == root {
			g.Listings = append(g.Listings, listings[i])
		}
	}
	return g
}

func countStores(listings []model.Listing) int {
	seen := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		seen[l.Store] = struct{}{}
	}
	return len(seen)
}
