package domain

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortProgress  = "progress"
)

// ItemFilter holds the admin item table criteria.
type ItemFilter struct {
	SearchTerm string `json:"searchTerm" form:"searchTerm"`
	Status     string `json:"status" form:"status"`
}

// PublicFilter holds the public listing criteria. It is remembered per visitor in the prefs cookie.
type PublicFilter struct {
	SearchTerm string `json:"searchTerm" form:"searchTerm"`
	Category   string `json:"category" form:"category"`
	SortBy     string `json:"sortBy" form:"sortBy"`
}

func (f PublicFilter) IsZero() bool {
	return f == PublicFilter{}
}
