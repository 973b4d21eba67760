package service

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"S/100", 100, true},
		{"S/92.5", 92.5, true},
		{"S/ 4.50", 4.5, true},
		{"S/.4.50", 4.5, true},
		{"PEN 8.00", 8, true},
		{"pen 8", 8, true},
		{"1,234.50", 1234.5, true},
		{"12,50", 12.5, true},
		{"1,234", 1234, true},
		{"2,345,678", 2345678, true},
		{"  S/ 24.5  ", 24.5, true},
		{"precio: 7.20 soles", 7.2, true},
		{"", 0, false},
		{"S/", 0, false},
		{"gratis", 0, false},
		{"...", 0, false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, ok := ParsePrice(test.input)
			require.Equal(t, test.ok, ok)
			if ok {
				assert.InDelta(t, test.want, got, 1e-9)
			}
		})
	}
}

func TestPriceKeySentinel(t *testing.T) {
	assert.True(t, math.IsInf(PriceKey("no price"), 1))
	assert.True(t, math.IsInf(PriceKey(""), 1))
	assert.Equal(t, 4.8, PriceKey("S/4.8"))
}

func TestParsePriceRoundTrip(t *testing.T) {
	// normalizing an already-normalized amount must not change it
	for _, raw := range []string{"S/100", "S/92.5", "1,234.50", "12,50", "PEN 8.00"} {
		first, ok := ParsePrice(raw)
		require.True(t, ok, raw)
		second, ok := ParsePrice("S/" + strconv.FormatFloat(first, 'f', -1, 64))
		require.True(t, ok, raw)
		assert.Equal(t, first, second, raw)
	}
}
