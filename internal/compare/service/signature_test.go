package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceshield/internal/compare/model"
)

func TestExtract(t *testing.T) {
	e := New(model.DefaultOptions())

	tests := []struct {
		name     string
		brand    string
		qty      *model.Quantity
		keywords []string
	}{
		{
			name:     "Aceite Primor de 900ml",
			brand:    "primor",
			qty:      &model.Quantity{Value: 900, Unit: "ml"},
			keywords: []string{"aceite"},
		},
		{
			name:     "Leche Gloria Entera 1 L",
			brand:    "gloria",
			qty:      &model.Quantity{Value: 1, Unit: "l"},
			keywords: []string{"entera", "leche"},
		},
		{
			name:     "Arroz Extra 5kg Bolsa",
			brand:    "",
			qty:      &model.Quantity{Value: 5, Unit: "kg"},
			keywords: []string{"arroz", "extra"},
		},
		{
			name:     "Gaseosa Inka Kola 1.5L",
			brand:    "inka kola",
			qty:      &model.Quantity{Value: 1.5, Unit: "l"},
			keywords: []string{"gaseosa"},
		},
		{
			name:     "Azúcar Rubia 1kg",
			brand:    "",
			qty:      &model.Quantity{Value: 1, Unit: "kg"},
			keywords: []string{"azúcar", "rubia"},
		},
		{
			name:     "Atún en Lata x 2 unid",
			brand:    "",
			qty:      &model.Quantity{Value: 2, Unit: "unid"},
			keywords: []string{"atún"},
		},
		{
			name:     "",
			brand:    "",
			qty:      nil,
			keywords: []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sig := e.Extract(test.name)
			assert.Equal(t, test.brand, sig.Brand)
			if test.qty == nil {
				assert.Nil(t, sig.Quantity)
			} else {
				require.NotNil(t, sig.Quantity)
				assert.InDelta(t, test.qty.Value, sig.Quantity.Value, 1e-9)
				assert.Equal(t, test.qty.Unit, sig.Quantity.Unit)
			}
			assert.Equal(t, test.keywords, sig.Keywords)
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := New(model.DefaultOptions())
	name := "Leche Gloria Entera Bolsa 946ml Pack x6"
	first := e.Extract(name)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Extract(name))
	}
}

func TestExtractCustomCatalog(t *testing.T) {
	opt := model.DefaultOptions()
	opt.Brands = []string{"acme"}
	opt.StopWords = []string{"super"}
	e := New(opt)

	sig := e.Extract("Super Detergente ACME 500g")
	assert.Equal(t, "acme", sig.Brand)
	require.NotNil(t, sig.Quantity)
	assert.Equal(t, "g", sig.Quantity.Unit)
	assert.Equal(t, []string{"detergente"}, sig.Keywords)
}

func TestExtractBrandOrderWins(t *testing.T) {
	opt := model.DefaultOptions()
	opt.Brands = []string{"gloria", "pura vida"}
	e := New(opt)

	// both brands appear; first catalog entry wins, no scoring
	sig := e.Extract("Leche Pura Vida by Gloria 400g")
	assert.Equal(t, "gloria", sig.Brand)
}
