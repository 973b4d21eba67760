package service

import (
	"math"
	"sort"

	"priceshield/internal/compare/model"
)

// Classify separates legitimate intra-store offers from duplicate
// scrape noise and returns one canonical price per store, in the order
// stores first appear in the group.
func (e *Engine) Classify(g model.ProductGroup) []model.CanonicalPrice {
	byStore := make(map[string][]model.Listing)
	var order []string
	for _, l := range g.Listings {
		if _, ok := byStore[l.Store]; !ok {
			order = append(order, l.Store)
		}
		byStore[l.Store] = append(byStore[l.Store], l)
	}

	out := make([]model.CanonicalPrice, 0, len(order))
	for _, store := range order {
		out = append(out, e.classifyStore(byStore[store]))
	}
	return out
}

func (e *Engine) classifyStore(listings []model.Listing) model.CanonicalPrice {
	if len(listings) == 1 {
		l := listings[0]
		return model.CanonicalPrice{
			Listing: l,
			Amount:  PriceKey(l.Price),
			IsOffer: listingDiscounted(l),
		}
	}

	// stable sort by normalized price; unparseable prices (+Inf) go last
	sorted := make([]model.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PriceKey(sorted[i].Price) < PriceKey(sorted[j].Price)
	})

	min, max := math.Inf(1), math.Inf(-1)
	for _, l := range sorted {
		p := PriceKey(l.Price)
		if math.IsInf(p, 1) {
			continue
		}
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	// spread over the parseable prices decides offer vs duplicate
	if !math.IsInf(min, 1) && max > 0 && (max-min)/max > e.opt.SpreadCutoff {
		return model.CanonicalPrice{
			Listing:      sorted[0],
			Amount:       PriceKey(sorted[0].Price),
			IsOffer:      true,
			Alternatives: sorted[1:],
		}
	}

	// near-identical prices: duplicate scrapes of the same tier,
	// collapse to the record with the most metadata. Unparseable
	// prices sort last and cannot win unless nothing parsed at all,
	// so a rich but broken record never shadows the real price.
	limit := 0
	for limit < len(sorted) && !math.IsInf(PriceKey(sorted[limit].Price), 1) {
		limit++
	}
	if limit == 0 {
		limit = len(sorted)
	}
	best := 0
	bestScore := qualityScore(sorted[0])
	for i := 1; i < limit; i++ {
		if s := qualityScore(sorted[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return model.CanonicalPrice{
		Listing: sorted[best],
		Amount:  PriceKey(sorted[best].Price),
		IsOffer: listingDiscounted(sorted[best]),
	}
}

// qualityScore prefers listings that carry more catalog metadata when
// collapsing duplicates. Ties keep the first-seen record.
func qualityScore(l model.Listing) int {
	score := 0
	if l.URL != "" {
		score += 3
	}
	if len(l.Images) > 0 {
		score += 2
	}
	if l.PersistentID != "" {
		score++
	}
	return score
}

// listingDiscounted reflects a store-reported promotion on a single
// listing (original price above current or an explicit discount).
func listingDiscounted(l model.Listing) bool {
	if l.DiscountPercentage > 0 {
		return true
	}
	if l.OriginalPrice == "" {
		return false
	}
	orig, ok := ParsePrice(l.OriginalPrice)
	if !ok {
		return false
	}
	cur, ok := ParsePrice(l.Price)
	return ok && orig > cur
}
