package contract

const DefaultNearbyDistanceKm = 5.0

// SearchCompaniesQuery holds the optional filters of /api/Search/companies.
// Nil pointers and empty strings impose no constraint.
type SearchCompaniesQuery struct {
	Query      string
	IsProvider *bool
	IsRetail   *bool
	MinScore   *float64
	Tags       string
}

// NearbyQuery holds the parameters of /api/Search/nearby.
type NearbyQuery struct {
	Lat        float64 `validate:"latitude"`
	Lng        float64 `validate:"longitude"`
	DistanceKm float64 `validate:"gte=0"`
	IsProvider *bool
}
