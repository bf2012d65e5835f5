package app

import (
	"net/url"
	"strconv"
	"strings"

	"hotel_indexes/internal/domain"
)

// QueryPath selects one of the fixed index-backed query shapes.
type QueryPath string

const (
	PathSingleField QueryPath = "single-field"
	PathCompound    QueryPath = "compound"
	PathText        QueryPath = "text"
	PathDynamic     QueryPath = "dynamic"
)

// BuildFilter maps request parameters to a filter. It never falls back
// to an empty filter: a missing or malformed parameter is a
// *domain.ValidationError.
func BuildFilter(path QueryPath, params url.Values) (domain.HotelFilter, error) {
	ve := domain.NewValidationError()
	var f domain.HotelFilter

	switch path {
	case PathSingleField:
		f.Kind = domain.FilterLocation
		f.Location = requireParam(ve, params, "location")

	case PathCompound:
		f.Kind = domain.FilterLocationPrice
		f.Location = requireParam(ve, params, "location")
		f.Price = requirePrice(ve, params)

	case PathText:
		f.Kind = domain.FilterText
		f.Search = requireParam(ve, params, "search")

	case PathDynamic:
		f.Kind = domain.FilterPriceRange
		f.Price = requirePrice(ve, params)
		f.Op = domain.CmpGT
		if op := strings.ToLower(strings.TrimSpace(params.Get("op"))); op != "" {
			f.Op = domain.Comparison(op)
			if !f.Op.Valid() {
				ve.Add("op", "must be one of gt, gte, lt, lte")
			}
		}

	default:
		ve.Add("path", "unknown query path "+strconv.Quote(string(path)))
	}

	if err := ve.Err(); err != nil {
		return domain.HotelFilter{}, err
	}
	return f, nil
}

// requireParam returns the raw value; only presence is checked after
// trimming, the value itself is matched exactly.
func requireParam(ve *domain.ValidationError, params url.Values, key string) string {
	v := params.Get(key)
	if strings.TrimSpace(v) == "" {
		ve.Add(key, "is required")
	}
	return v
}

func requirePrice(ve *domain.ValidationError, params url.Values) float64 {
	raw := strings.TrimSpace(params.Get("price"))
	if raw == "" {
		ve.Add("price", "is required")
		return 0
	}
	p, ok := floatFlexible(raw)
	if !ok {
		ve.Add("price", "must be a number")
		return 0
	}
	return p
}

// cacheKey is stable per filter; used by QueryService.
func cacheKey(f domain.HotelFilter) string {
	switch f.Kind {
	case domain.FilterLocation:
		return "loc:" + url.QueryEscape(f.Location)
	case domain.FilterLocationPrice:
		return "locprice:" + url.QueryEscape(f.Location) + ":" + strconv.FormatFloat(f.Price, 'g', -1, 64)
	case domain.FilterText:
		return "text:" + url.QueryEscape(f.Search)
	default:
		return "price:" + string(f.Op) + ":" + strconv.FormatFloat(f.Price, 'g', -1, 64)
	}
}
