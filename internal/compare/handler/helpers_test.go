package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceshield/internal/compare/model"
)

func TestResolveKey(t *testing.T) {
	rec := map[string]string{
		"Nombre":             "Aceite Primor 900ml",
		"Precio Oferta (S/)": "S/9.50",
		"Tienda":             "Metro",
	}

	assert.Equal(t, "Nombre", resolveKey(rec, "name|nombre|producto"))
	assert.Equal(t, "Tienda", resolveKey(rec, "store|tienda|supermercado|supermarket"))
	// composite price header still maps through the hint scoring
	assert.Equal(t, "Precio Oferta (S/)", resolveKey(rec, "price|precio"))
	assert.Equal(t, "", resolveKey(rec, "url|link|enlace"))
	assert.Equal(t, "", resolveKey(rec, ""))
}

func TestResolveKeyExactWins(t *testing.T) {
	rec := map[string]string{"price": "S/5.30", "Precio Lista": "S/6.00"}
	assert.Equal(t, "price", resolveKey(rec, "price|precio"))
}

func TestNormHeaderKey(t *testing.T) {
	assert.Equal(t, "precio s", normHeaderKey("  Precio (S/)  "))
	assert.Equal(t, "nombre producto", normHeaderKey("Nombre\u00A0Producto"))
	assert.Equal(t, "", normHeaderKey("---"))
}

func TestToListings(t *testing.T) {
	maps := []map[string]string{
		{"Nombre": "Leche Gloria 1L", "Precio": "S/5.30", "Tienda": "Metro", "Descuento (%)": "12,5"},
		{"Nombre": "", "Precio": "S/1.00", "Tienda": "Metro"}, // skipped
		{"Nombre": "Arroz Costeño 5kg", "Precio": "S/24.50", "Tienda": "Tottus"},
	}

	out := toListings(maps, model.DefaultMapping())
	require.Len(t, out, 2)
	assert.Equal(t, "Leche Gloria 1L", out[0].Name)
	assert.Equal(t, "S/5.30", out[0].Price)
	assert.Equal(t, "Metro", out[0].Store)
	assert.Equal(t, model.SourceFiltered, out[0].Source)
	assert.InDelta(t, 12.5, out[0].DiscountPercentage, 1e-9)
	assert.Equal(t, "Tottus", out[1].Store)
	assert.Zero(t, out[1].DiscountPercentage)
}
