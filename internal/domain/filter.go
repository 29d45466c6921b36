package domain

// FilterSelection captures a storefront filter state. Every field is optional;
// the zero value means "no filter applied" and serializes to zero query
// parameters.
type FilterSelection struct {
	Categories []string
	Brands     []string
	Specs      SpecFilter
	// PriceMin and PriceMax are independent bounds in cents; either may be
	// set without the other.
	PriceMin *int64
	PriceMax *int64
	// MinRating means "this value and above", 1-5.
	MinRating *int
	InStock   bool
	Search    string
}

// SpecFilter narrows by bike specification fields.
type SpecFilter struct {
	FrameMaterial string
	WheelSize     string
	Suspension    string
	Colors        []string
}

// IsZero reports whether no filter field is set.
func (f FilterSelection) IsZero() bool {
	return len(f.Categories) == 0 &&
		len(f.Brands) == 0 &&
		f.Specs.FrameMaterial == "" &&
		f.Specs.WheelSize == "" &&
		f.Specs.Suspension == "" &&
		len(f.Specs.Colors) == 0 &&
		f.PriceMin == nil &&
		f.PriceMax == nil &&
		f.MinRating == nil &&
		!f.InStock &&
		f.Search == ""
}

// Page selects a listing page. Zero values mean "let the server decide".
type Page struct {
	Number int
	Size   int
}

// Pagination is the server-reported listing position.
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	HasMore bool `json:"hasMore"`
}
