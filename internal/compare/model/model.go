package model

// Source tags where a listing came from. Closed set instead of the
// free-form type strings the scraper emits.
type Source int

const (
	SourceAPI Source = iota // real-time search against store APIs
	SourceSaved             // durable catalog entry from the store
	SourceFiltered          // derived from a filtered result page
)

func (s Source) String() string {
	switch s {
	case SourceSaved:
		return "saved"
	case SourceFiltered:
		return "filtered"
	default:
		return "api"
	}
}

// Listing is one scraped offer. Name and Price are always present
// (possibly empty); everything else is best-effort from the scraper.
// The engine never mutates a Listing.
type Listing struct {
	Name               string   `json:"name"`
	Price              string   `json:"price"`
	Store              string   `json:"store"`
	URL                string   `json:"url,omitempty"`
	Images             []string `json:"images,omitempty"`
	PersistentID       string   `json:"persistent_id,omitempty"`
	OriginalPrice      string   `json:"original_price,omitempty"`
	DiscountPercentage float64  `json:"discount_percentage,omitempty"`
	Source             Source   `json:"-"`
}

// Quantity is a parsed "<number><unit>" fragment of a product name.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Signature is the structured identity derived from a listing name.
// Keywords are lowercased, stop-word free and sorted, so two signatures
// built from the same name are always equal.
type Signature struct {
	Brand    string    `json:"brand"`
	Quantity *Quantity `json:"quantity,omitempty"`
	Keywords []string  `json:"keywords"`
	NameNorm string    `json:"-"`
}

// ProductGroup is a set of listings judged to denote the same product
// as the anchor. Membership is checked against the anchor only; the
// group is not necessarily transitive (see Options.Transitive).
type ProductGroup struct {
	Anchor   Signature `json:"anchor"`
	Listings []Listing `json:"listings"`
}

// CanonicalPrice is the one representative record for a product at a
// store after deduplication. Amount is +Inf when the price text could
// not be parsed, so invalid prices lose every minimization. Not
// marshaled directly: the HTTP layer builds its own view so an
// infinite amount never reaches encoding/json.
type CanonicalPrice struct {
	Listing      Listing
	Amount       float64
	IsOffer      bool
	Alternatives []Listing
}

// Options carries every catalog and threshold the engine uses. Nothing
// is hidden in package globals so tests can swap in alternate catalogs.
type Options struct {
	Brands    []string // ordered; first substring match wins
	StopWords []string
	Units     []string // quantity unit suffixes, longest first

	StrictThreshold   float64 // keyword similarity cutoff, strict pass
	RelaxedThreshold  float64 // keyword similarity cutoff, relaxed pass
	QuantityTolerance float64 // relative quantity difference veto
	SpreadCutoff      float64 // intra-store offer vs duplicate boundary
	MinStores         int     // strict groups below this escalate to relaxed
	Transitive        bool    // union-find closure instead of anchor-only
}

// DefaultOptions returns the production catalogs and thresholds for
// Peruvian supermarket listings.
func DefaultOptions() Options {
	return Options{
		Brands: []string{
			"gloria", "primor", "costeño", "laive", "inka kola", "coca cola",
			"nicolini", "don vittorio", "pura vida", "bells", "cuisine&co",
			"florida", "san fernando", "bimbo", "field", "sublime",
			"donofrio", "alacena", "bolivar", "sapolio", "ace", "ariel",
			"tottus", "metro", "wong",
		},
		StopWords: []string{
			// prepositions / articles
			"de", "del", "la", "el", "en", "con", "sin", "para", "por", "y",
			// packaging nouns
			"bolsa", "paquete", "caja", "lata", "botella", "frasco",
			"envase", "unidad", "pack",
		},
		Units: []string{"unid", "und", "kg", "gr", "ml", "lt", "oz", "lb", "g", "l"},

		StrictThreshold:   0.85,
		RelaxedThreshold:  0.5,
		QuantityTolerance: 0.10,
		SpreadCutoff:      0.05,
		MinStores:         4,
	}
}
