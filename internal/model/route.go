package model

import "time"

// Route statuses.
const (
	RouteStatusActive   = "active"
	RouteStatusInactive = "inactive"
)

// Route represents a geographic mail route identified by its zip code.
type Route struct {
	ID             int64     `json:"id"`
	ZipCode        string    `json:"zip_code"`
	Name           string    `json:"name"`
	HouseholdCount int       `json:"household_count"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"-"`
}

// CreateRouteRequest is the DTO for creating a route.
type CreateRouteRequest struct {
	ZipCode        string `json:"zip_code" validate:"required,notblank,max=10"`
	Name           string `json:"name" validate:"required,notblank,max=255"`
	HouseholdCount *int   `json:"household_count" validate:"required,gte=0"`
}
