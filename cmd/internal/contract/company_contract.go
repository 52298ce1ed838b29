package contract

const MaxLogoFileSizeBytes = 5 * 1024 * 1024

var ValidLogoFileTypes = []string{"png", "jpg", "jpeg", "webp"}

// CompanyRequest is the body of POST and PUT /api/Companies. The score is
// derived from the rates and is never read from the client.
type CompanyRequest struct {
	ID         int           `json:"id" validate:"gte=0"`
	NIF        string        `json:"nif" validate:"required,max=20"`
	Name       string        `json:"name" validate:"required,max=120"`
	Mail       string        `json:"mail" validate:"max=254"`
	Phone      int           `json:"phone" validate:"gte=0"`
	Tags       string        `json:"tags" validate:"max=500"`
	IsProvider bool          `json:"isProvider"`
	IsRetail   bool          `json:"isRetail"`
	Address    *AddressInput `json:"address" validate:"omitempty"`
}

// AddressInput is the address embedded in a company creation.
type AddressInput struct {
	Location string  `json:"location" validate:"max=250"`
	Lat      float64 `json:"lat" validate:"latitude"`
	Lng      float64 `json:"lng" validate:"longitude"`
}

type CompanyResponse struct {
	ID         int              `json:"id"`
	NIF        string           `json:"nif"`
	Name       string           `json:"name"`
	Mail       string           `json:"mail"`
	Phone      int              `json:"phone"`
	Tags       string           `json:"tags"`
	Score      float64          `json:"score"`
	IsProvider bool             `json:"isProvider"`
	IsRetail   bool             `json:"isRetail"`
	LogoURL    string           `json:"logoUrl,omitempty"`
	Address    *AddressResponse `json:"address"`
	Rates      []*RateResponse  `json:"rates"`
	Providers  []*CompanyBrief  `json:"providers,omitempty"`
	CreatedAt  string           `json:"createdAt"`
	UpdatedAt  string           `json:"updatedAt"`
}

// CompanyBrief is a company without its related records.
type CompanyBrief struct {
	ID         int     `json:"id"`
	NIF        string  `json:"nif"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	IsProvider bool    `json:"isProvider"`
	IsRetail   bool    `json:"isRetail"`
}

// NearbyCompanyResponse is a company found by a radius search, with its
// distance in kilometers to the searched point.
type NearbyCompanyResponse struct {
	*CompanyResponse
	Distance float64 `json:"distance"`
}
