package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevantMatch(t *testing.T) {
	tests := []struct {
		query string
		name  string
		want  bool
	}{
		// prefix and word-start matches
		{"papaya", "Papaya Fresca x Kg", true},
		{"leche", "Leche Gloria Entera 1L", true},
		{"gloria", "Leche Gloria Entera 1L", true},
		{"papa", "Papa Amarilla x Kg", true},

		// short queries with no prefix or word-start hit are rejected
		{"ajo", "Granadilla x Kg", false},

		// multi-word: 60% of the words must appear
		{"aceite vegetal primor", "Aceite Primor Premium 1L", true},
		{"leche condensada nestle", "Leche Gloria Entera 1L", false},

		// long single words tolerate reordering via character overlap
		{"yogurt", "Yogur Griego Natural", true},

		// short queries that fail the strict checks are rejected
		{"ace", "Panetón Especial", false},

		{"", "Leche Gloria", false},
		{"leche", "", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, RelevantMatch(test.query, test.name),
			"query=%q name=%q", test.query, test.name)
	}
}
