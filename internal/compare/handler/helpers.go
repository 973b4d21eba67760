// Column-name resolution for uploaded listing batches: lower-case,
// strip punctuation, then exact / contains matching with a few
// domain heuristics.
package handler

import (
	"regexp"
	"strconv"
	"strings"

	"priceshield/internal/compare/model"
	"priceshield/internal/utils"
)

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real map key for a wanted column name.
// Supports "a|b|c" alternatives, exact and normalized-contains matches.
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if n != "" && (strings.Contains(nk, n) || strings.Contains(n, nk)) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		// composite headers like "precio oferta soles" still map
		for _, hint := range []string{"precio", "nombre", "producto", "tienda"} {
			if strings.Contains(nWantAll[0], hint) && strings.Contains(nk, hint) {
				score += 100
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// toListings maps uploaded rows to listings, skipping rows without a
// product name.
func toListings(maps []map[string]string, m model.Mapping) []model.Listing {
	out := make([]model.Listing, 0, len(maps))
	for _, rec := range maps {
		nameKey := resolveKey(rec, m.NameKey)
		priceKey := resolveKey(rec, m.PriceKey)
		storeKey := resolveKey(rec, m.StoreKey)
		urlKey := resolveKey(rec, m.URLKey)
		discountKey := resolveKey(rec, m.DiscountKey)

		name := strings.TrimSpace(rec[nameKey])
		if name == "" {
			continue
		}
		l := model.Listing{
			Name:   name,
			Price:  strings.TrimSpace(rec[priceKey]),
			Store:  strings.TrimSpace(rec[storeKey]),
			URL:    strings.TrimSpace(rec[urlKey]),
			Source: model.SourceFiltered,
		}
		if d, ok := utils.ParseFloatPE(rec[discountKey]); ok && d > 0 {
			l.DiscountPercentage = d
		}
		out = append(out, l)
	}
	return out
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func toFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}
