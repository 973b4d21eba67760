package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatPE(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"24,5", 24.5, true},
		{"1 234,50", 1234.50, true},
		{"1\u00A0234,50", 1234.50, true},
		{"12.75", 12.75, true},
		{"-3,2", -3.2, true},
		{"  7  ", 7, true},
		{"", 0, false},
		{"-", 0, false},
		{"n/a", 0, false},
	}

	for _, test := range tests {
		got, ok := ParseFloatPE(test.in)
		assert.Equal(t, test.ok, ok, "input %q", test.in)
		if test.ok {
			assert.InDelta(t, test.want, got, 1e-9, "input %q", test.in)
		}
	}
}
