package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"priceshield/internal/compare/model"
)

// Engine holds the catalogs, thresholds and precompiled matchers. All
// methods are pure functions of their inputs; an Engine is safe for
// concurrent use.
type Engine struct {
	opt    model.Options
	reQty  *regexp.Regexp
	stop   map[string]struct{}
	brands []string // lowercased, original catalog order
}

func New(opt model.Options) *Engine {
	e := &Engine{opt: opt}

	units := make([]string, len(opt.Units))
	copy(units, opt.Units)
	// longest first so "unid" wins over "und", "lt" over "l"
	sort.Slice(units, func(i, j int) bool { return len(units[i]) > len(units[j]) })
	e.reQty = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(` + strings.Join(units, "|") + `)\b`)

	e.stop = make(map[string]struct{}, len(opt.StopWords))
	for _, w := range opt.StopWords {
		e.stop[strings.ToLower(w)] = struct{}{}
	}
	e.brands = make([]string, len(opt.Brands))
	for i, b := range opt.Brands {
		e.brands[i] = strings.ToLower(b)
	}
	return e
}

func (e *Engine) Options() model.Options { return e.opt }

var reNonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Extract parses a free-text product name into a structured signature.
// Deterministic: the same name always yields the same signature.
func (e *Engine) Extract(name string) model.Signature {
	lower := strings.ToLower(strings.TrimSpace(name))
	sig := model.Signature{
		Keywords: []string{},
		NameNorm: collapseSpaces(lower),
	}
	if lower == "" {
		return sig
	}

	// brand: first substring match in catalog order, no scoring
	for _, b := range e.brands {
		if strings.Contains(lower, b) {
			sig.Brand = b
			break
		}
	}

	// quantity: at most one "<number><unit>" fragment
	var qtyNum, qtyRaw string
	if m := e.reQty.FindStringSubmatch(lower); m != nil {
		qtyRaw = strings.ToLower(collapseSpaces(m[0]))
		qtyNum = strings.ReplaceAll(m[1], ",", ".")
		if v, err := strconv.ParseFloat(qtyNum, 64); err == nil {
			sig.Quantity = &model.Quantity{Value: v, Unit: strings.ToLower(m[2])}
		}
	}

	// keywords: tokens minus short ones, stop-words and brand/quantity words
	drop := make(map[string]struct{})
	for _, w := range strings.Fields(sig.Brand) {
		drop[w] = struct{}{}
	}
	if qtyNum != "" {
		drop[qtyNum] = struct{}{}
		drop[strings.ReplaceAll(qtyNum, ".", "")] = struct{}{}
		drop[strings.ReplaceAll(qtyRaw, " ", "")] = struct{}{}
		if sig.Quantity != nil {
			drop[sig.Quantity.Unit] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(reNonAlnum.ReplaceAllString(lower, " ")) {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, ok := e.stop[tok]; ok {
			continue
		}
		if _, ok := drop[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
	}
	for tok := range seen {
		sig.Keywords = append(sig.Keywords, tok)
	}
	sort.Strings(sig.Keywords)
	return sig
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
