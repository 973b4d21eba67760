package fileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadAnyMapsCSV(t *testing.T) {
	data := "Nombre,Precio (S/),Tienda\n" +
		"Aceite Primor de 900ml,S/9.50,Metro\n" +
		",,\n" +
		"Panetón Donofrio 900g,S/28.90,Tottus\n"

	maps, err := ReadAnyMaps(strings.NewReader(data), "listado.csv", 1)
	require.NoError(t, err)
	require.Len(t, maps, 2) // the empty row is dropped

	assert.Equal(t, "Aceite Primor de 900ml", maps[0]["Nombre"])
	assert.Equal(t, "S/9.50", maps[0]["Precio (S/)"])
	assert.Equal(t, "Metro", maps[0]["Tienda"])
	assert.Equal(t, "Panetón Donofrio 900g", maps[1]["Nombre"])
}

func TestReadAnyMapsCSVWindows1252(t *testing.T) {
	utf8 := "Nombre,Precio\n" +
		"Panetón Donofrio 900g,S/28.90\n" +
		"Azúcar Rubia Señorial 1kg,S/4.20\n" +
		"Atún en Aceite Vegetal Fanny,S/6.90\n" +
		"Jamón del País Otto Kunz,S/12.50\n"
	enc, err := charmap.Windows1252.NewEncoder().String(utf8)
	require.NoError(t, err)

	maps, err := ReadAnyMaps(strings.NewReader(enc), "export.csv", 1)
	require.NoError(t, err)
	require.Len(t, maps, 4)
	assert.Equal(t, "Panetón Donofrio 900g", maps[0]["Nombre"])
	assert.Equal(t, "Azúcar Rubia Señorial 1kg", maps[1]["Nombre"])
}

func TestReadAnyMapsHeaderRow(t *testing.T) {
	data := "Reporte de precios,,\n" +
		"Nombre,Precio,Tienda\n" +
		"Leche Gloria 1L,S/5.30,Metro\n"

	maps, err := ReadAnyMaps(strings.NewReader(data), "reporte.csv", 2)
	require.NoError(t, err)
	require.Len(t, maps, 1)
	assert.Equal(t, "Leche Gloria 1L", maps[0]["Nombre"])
}

func TestReadAnyMapsBlankHeaders(t *testing.T) {
	data := "Nombre,,Tienda\nLeche Gloria 1L,S/5.30,Metro\n"

	maps, err := ReadAnyMaps(strings.NewReader(data), "sin-header.csv", 1)
	require.NoError(t, err)
	require.Len(t, maps, 1)
	assert.Equal(t, "S/5.30", maps[0]["Column 2"])
}

func TestReadAnyMapsUnsupported(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader("x"), "listado.pdf", 1)
	assert.Error(t, err)
}
