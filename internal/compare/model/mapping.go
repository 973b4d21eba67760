package model

// Mapping names the spreadsheet columns a listing batch upload uses.
// Keys support "a|b|c" alternatives, matched against normalized
// headers.
type Mapping struct {
	NameKey     string // product name column
	PriceKey    string // price column
	StoreKey    string // store/supermarket column
	URLKey      string // optional product URL column
	DiscountKey string // optional discount percentage column
	HeaderRow   int    // 1-based header row
}

// DefaultMapping covers the header spellings seen in store exports.
func DefaultMapping() Mapping {
	return Mapping{
		NameKey:     "name|nombre|producto",
		PriceKey:    "price|precio",
		StoreKey:    "store|tienda|supermercado|supermarket",
		URLKey:      "url|link|enlace",
		DiscountKey: "discount|descuento",
		HeaderRow:   1,
	}
}
