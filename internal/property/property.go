// Package property resolves public-record attributes for an address by
// trying a chain of data providers. One fallback attempt, no retries: if
// both providers fail the caller gets defaults, never an HTTP error.
package property

import "context"

// Pool describes pool presence on the parcel.
type Pool struct {
	HasPool bool   `json:"has_pool"`
	Type    string `json:"type,omitempty"`
}

// Parking describes covered parking on the parcel.
type Parking struct {
	Covered      bool `json:"covered"`
	GarageSpaces int  `json:"garage_spaces"`
	Carport      bool `json:"carport"`
}

// Data is the provider-neutral property record returned to the funnel.
type Data struct {
	Provider  string  `json:"provider"`
	Beds      int     `json:"beds"`
	BathsFull int     `json:"baths_full"`
	BathsHalf int     `json:"baths_half"`
	Baths     float64 `json:"baths"`
	Sqft      int     `json:"sqft"`
	LotSize   int     `json:"lot_size"`
	YearBuilt int     `json:"year_built"`
	Stories   int     `json:"stories"`
	Basement  bool    `json:"basement"`
	Pool      Pool    `json:"pool"`
	Parking   Parking `json:"parking"`
}

// Provider fetches property data from one upstream source.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, address string) (*Data, error)
}
