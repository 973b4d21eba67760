package service

import (
	"math"

	"priceshield/internal/compare/model"
)

// SelectBest returns the cheapest canonical price. Entries with an
// unparseable price are skipped; an empty result is a normal outcome
// for single-store products, not an error.
func (e *Engine) SelectBest(prices []model.CanonicalPrice) (model.CanonicalPrice, bool) {
	best := model.CanonicalPrice{Amount: math.Inf(1)}
	found := false
	for _, p := range prices {
		if math.IsInf(p.Amount, 1) {
			continue
		}
		// strict less-than keeps the first-seen entry on ties
		if !found || p.Amount < best.Amount {
			best = p
			found = true
		}
	}
	return best, found
}

// DedupeForDisplay cleans a whole search-results page: listings are
// clustered greedily by the strict same-product predicate (first
// unassigned listing anchors the next cluster), each cluster is run
// through the classifier, and only the canonical record per store
// survives, in input order.
func (e *Engine) DedupeForDisplay(listings []model.Listing) []model.Listing {
	if len(listings) == 0 {
		return []model.Listing{}
	}

	sigs := make([]model.Signature, len(listings))
	for i, l := range listings {
		sigs[i] = e.Extract(l.Name)
	}

	cluster := make([]int, len(listings))
	for i := range cluster {
		cluster[i] = -1
	}
	next := 0
	groups := make(map[int][]int)
	for i := range listings {
		if cluster[i] != -1 {
			continue
		}
		cluster[i] = next
		groups[next] = append(groups[next], i)
		for j := i + 1; j < len(listings); j++ {
			if cluster[j] == -1 && e.SameProduct(sigs[i], sigs[j], true) {
				cluster[j] = next
				groups[next] = append(groups[next], j)
			}
		}
		next++
	}

	keep := make(map[int]bool, len(listings))
	for c := 0; c < next; c++ {
		members := groups[c]
		g := model.ProductGroup{Anchor: sigs[members[0]]}
		for _, idx := range members {
			g.Listings = append(g.Listings, listings[idx])
		}
		for _, cp := range e.Classify(g) {
			for _, idx := range members {
				if sameListing(listings[idx], cp.Listing) {
					keep[idx] = true
					break
				}
			}
		}
	}

	out := make([]model.Listing, 0, len(keep))
	for i, l := range listings {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}

func sameListing(a, b model.Listing) bool {
	return a.Name == b.Name && a.Price == b.Price && a.Store == b.Store &&
		a.URL == b.URL && a.PersistentID == b.PersistentID
}
