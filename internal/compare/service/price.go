package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// currency markers in front of the number: "S/", "S/.", "PEN"
var reCurrency = regexp.MustCompile(`(?i)^\s*(?:s/\.?|pen)\s*`)

// everything that is not a digit or a separator
var reJunk = regexp.MustCompile(`[^\d.,]`)

var reDigitsDot = regexp.MustCompile(`[^\d.]`)

// ParsePrice turns heterogeneous price text ("S/ 4.50", "PEN 8", "1,234.50",
// "12,50") into a decimal amount. The second return is false when nothing
// parseable is left.
func ParsePrice(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	s = reCurrency.ReplaceAllString(s, "")
	s = reJunk.ReplaceAllString(s, "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// comma is a thousands separator: 1,234.50 -> 1234.50
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		// 12,50 -> 12.50 but 1,234 -> 1234
		last := strings.LastIndex(s, ",")
		if len(s)-last-1 <= 2 {
			s = strings.ReplaceAll(s[:last], ",", "") + "." + s[last+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	s = reDigitsDot.ReplaceAllString(s, "")
	if s == "" || s == "." || strings.Count(s, ".") > 1 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// PriceKey is ParsePrice with +Inf on failure, so unparseable prices
// never win a cheapest-price comparison.
func PriceKey(text string) float64 {
	f, ok := ParsePrice(text)
	if !ok {
		return math.Inf(1)
	}
	return f
}
