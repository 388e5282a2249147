package model

// Industry is a top-level business category used to limit how many
// advertisers of the same kind share a route.
type Industry struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// IndustrySubcategory belongs to exactly one industry and is ordered
// within it by SortOrder.
type IndustrySubcategory struct {
	ID         int64  `json:"id"`
	IndustryID int64  `json:"industry_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
}
