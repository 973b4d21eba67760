package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"priceshield/internal/compare/model"
	"priceshield/internal/compare/service"
	"priceshield/internal/fileio"
	"priceshield/internal/metrics"
	"priceshield/internal/storage"
)

// priceView is the wire form of a CanonicalPrice: amount null when the
// price text was unparseable, display pre-formatted for the storefront.
type priceView struct {
	Listing      model.Listing   `json:"listing"`
	Amount       *float64        `json:"amount"`
	Display      string          `json:"display,omitempty"`
	IsOffer      bool            `json:"is_offer"`
	Alternatives []model.Listing `json:"alternatives,omitempty"`
}

func toView(p model.CanonicalPrice) priceView {
	v := priceView{
		Listing:      p.Listing,
		IsOffer:      p.IsOffer,
		Alternatives: p.Alternatives,
	}
	if !math.IsInf(p.Amount, 1) {
		a := p.Amount
		v.Amount = &a
		v.Display = "S/ " + decimal.NewFromFloat(p.Amount).StringFixed(2)
	}
	return v
}

type compareResponse struct {
	Group  model.ProductGroup `json:"group"`
	Prices []priceView        `json:"prices"`
	Best   *priceView         `json:"best"`
}

// optionsPatch lets a caller override individual engine thresholds per
// request; untouched fields keep the server defaults.
type optionsPatch struct {
	StrictThreshold   *float64 `json:"strict_threshold"`
	RelaxedThreshold  *float64 `json:"relaxed_threshold"`
	QuantityTolerance *float64 `json:"quantity_tolerance"`
	SpreadCutoff      *float64 `json:"spread_cutoff"`
	MinStores         *int     `json:"min_stores"`
	Transitive        *bool    `json:"transitive"`
}

func applyPatch(base model.Options, p *optionsPatch) model.Options {
	if p == nil {
		return base
	}
	if p.StrictThreshold != nil {
		base.StrictThreshold = *p.StrictThreshold
	}
	if p.RelaxedThreshold != nil {
		base.RelaxedThreshold = *p.RelaxedThreshold
	}
	if p.QuantityTolerance != nil {
		base.QuantityTolerance = *p.QuantityTolerance
	}
	if p.SpreadCutoff != nil {
		base.SpreadCutoff = *p.SpreadCutoff
	}
	if p.MinStores != nil {
		base.MinStores = *p.MinStores
	}
	if p.Transitive != nil {
		base.Transitive = *p.Transitive
	}
	return base
}

func reqLogger(r *http.Request, logger zerolog.Logger) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

func runCompare(opt model.Options, listings []model.Listing, anchor int) compareResponse {
	eng := service.New(opt)
	group := eng.ResolveGroup(listings, anchor)
	prices := eng.Classify(group)

	resp := compareResponse{Group: group, Prices: make([]priceView, 0, len(prices))}
	for _, p := range prices {
		resp.Prices = append(resp.Prices, toView(p))
	}
	if best, ok := eng.SelectBest(prices); ok {
		v := toView(best)
		resp.Best = &v
	}
	return resp
}

// Compare resolves the same-product group of an anchor listing and
// returns the canonical per-store prices plus the cheapest one.
func Compare(opt model.Options, mon *metrics.Monitor, logger zerolog.Logger) http.HandlerFunc {
	type request struct {
		Listings []model.Listing `json:"listings"`
		Anchor   int             `json:"anchor"`
		Options  *optionsPatch   `json:"options"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(r, logger)
		defer r.Body.Close()

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Listings) == 0 {
			http.Error(w, "no listings", http.StatusBadRequest)
			return
		}
		if req.Anchor < 0 || req.Anchor >= len(req.Listings) {
			http.Error(w, "anchor out of range", http.StatusBadRequest)
			return
		}

		resp := runCompare(applyPatch(opt, req.Options), req.Listings, req.Anchor)
		mon.Compares.Inc()
		mon.GroupSize.Observe(float64(len(resp.Group.Listings)))
		writeJSON(w, log, resp)

		log.Info().
			Int("listings", len(req.Listings)).
			Int("group", len(resp.Group.Listings)).
			Dur("elapsed", time.Since(start)).
			Msg("compare done")
	}
}

// CompareUpload is Compare over an uploaded CSV/XLS/XLSX listing batch.
// Column names and engine thresholds come from form values.
func CompareUpload(opt model.Options, mon *metrics.Monitor, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(r, logger)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		m := model.DefaultMapping()
		m.HeaderRow = atoi(r.FormValue("header_row"), 1)
		if v := r.FormValue("name_key"); v != "" {
			m.NameKey = v
		}
		if v := r.FormValue("price_key"); v != "" {
			m.PriceKey = v
		}
		if v := r.FormValue("store_key"); v != "" {
			m.StoreKey = v
		}
		if v := r.FormValue("url_key"); v != "" {
			m.URLKey = v
		}
		if v := r.FormValue("discount_key"); v != "" {
			m.DiscountKey = v
		}

		maps, err := fileio.ReadAnyMaps(file, header.Filename, m.HeaderRow)
		if err != nil {
			http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
		listings := toListings(maps, m)
		if len(listings) == 0 {
			http.Error(w, "no listings in file", http.StatusBadRequest)
			return
		}

		anchor := atoi(r.FormValue("anchor"), 0)
		if anchor < 0 || anchor >= len(listings) {
			http.Error(w, "anchor out of range", http.StatusBadRequest)
			return
		}

		patch := optionsPatch{}
		if v := r.FormValue("strict_threshold"); v != "" {
			f := toFloat(v, opt.StrictThreshold)
			patch.StrictThreshold = &f
		}
		if v := r.FormValue("relaxed_threshold"); v != "" {
			f := toFloat(v, opt.RelaxedThreshold)
			patch.RelaxedThreshold = &f
		}
		if v := r.FormValue("min_stores"); v != "" {
			n := atoi(v, opt.MinStores)
			patch.MinStores = &n
		}
		if v := r.FormValue("transitive"); v != "" {
			b := toBool(v, false)
			patch.Transitive = &b
		}

		resp := runCompare(applyPatch(opt, &patch), listings, anchor)
		mon.Compares.Inc()
		mon.GroupSize.Observe(float64(len(resp.Group.Listings)))
		writeJSON(w, log, resp)

		log.Info().
			Str("file", header.Filename).
			Int("listings", len(listings)).
			Int("group", len(resp.Group.Listings)).
			Dur("elapsed", time.Since(start)).
			Msg("compare upload done")
	}
}

// Dedupe cleans a whole search-results page of intra-store duplicates.
func Dedupe(opt model.Options, mon *metrics.Monitor, logger zerolog.Logger) http.HandlerFunc {
	type request struct {
		Listings []model.Listing `json:"listings"`
		Options  *optionsPatch   `json:"options"`
	}
	type response struct {
		Listings []model.Listing `json:"listings"`
		Dropped  int             `json:"dropped"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(r, logger)
		defer r.Body.Close()

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}

		eng := service.New(applyPatch(opt, req.Options))
		out := eng.DedupeForDisplay(req.Listings)
		mon.Dedupes.Inc()
		writeJSON(w, log, response{Listings: out, Dropped: len(req.Listings) - len(out)})
	}
}

// SaveListings persists a scraped batch into the catalog.
func SaveListings(st *storage.Store, mon *metrics.Monitor, logger zerolog.Logger) http.HandlerFunc {
	type request struct {
		Listings []model.Listing `json:"listings"`
		Query    string          `json:"query"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(r, logger)
		defer r.Body.Close()

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		saved, err := st.SaveBatch(r.Context(), req.Listings, req.Query)
		if err != nil {
			log.Error().Err(err).Msg("save batch")
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		mon.ListingsSaved.Add(float64(saved))
		writeJSON(w, log, map[string]int{"saved": saved})
	}
}

// SearchSaved serves saved-catalog search with the relevance guard.
func SearchSaved(st *storage.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(r, logger)
		q := r.URL.Query()
		listings, err := st.SearchSaved(r.Context(),
			q.Get("query"), q.Get("store"), atoi(q.Get("limit"), 50), q.Get("sort_by"))
		if err != nil {
			log.Error().Err(err).Msg("search saved")
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, log, map[string]any{"listings": listings, "count": len(listings)})
	}
}

// PopularSearches returns the most repeated saved queries.
func PopularSearches(st *storage.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(r, logger)
		top, err := st.PopularSearches(r.Context(), atoi(r.URL.Query().Get("limit"), 10))
		if err != nil {
			log.Error().Err(err).Msg("popular searches")
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, log, map[string]any{"searches": top})
	}
}

// PriceHistory returns the recorded price points of a saved listing.
func PriceHistory(st *storage.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(r, logger)
		q := r.URL.Query()
		id := q.Get("id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}
		points, err := st.PriceHistory(r.Context(), id, atoi(q.Get("days"), 30))
		if err != nil {
			log.Error().Err(err).Msg("price history")
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, log, map[string]any{"history": points})
	}
}
