package domain

// Hotel is the persisted record. ID is assigned by the store on insert.
type Hotel struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Rooms       int     `json:"rooms"`
	Description string  `json:"description,omitempty"`
}

// Comparison is the operator applied by the price-range query path.
type Comparison string

const (
	CmpGT  Comparison = "gt"
	CmpGTE Comparison = "gte"
	CmpLT  Comparison = "lt"
	CmpLTE Comparison = "lte"
)

func (c Comparison) Valid() bool {
	switch c {
	case CmpGT, CmpGTE, CmpLT, CmpLTE:
		return true
	}
	return false
}

// FilterKind names one of the fixed, index-backed query shapes.
type FilterKind string

const (
	FilterLocation      FilterKind = "location"       // location_1
	FilterLocationPrice FilterKind = "location_price" // location_1_price_1
	FilterText          FilterKind = "text"           // name_text_description_text
	FilterPriceRange    FilterKind = "price_range"    // price_1 (lazy)
)

// HotelFilter is what the dispatcher hands to a store. Only the fields
// relevant to Kind are set.
type HotelFilter struct {
	Kind     FilterKind
	Location string
	Price    float64
	Search   string
	Op       Comparison
}
