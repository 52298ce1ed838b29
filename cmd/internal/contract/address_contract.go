package contract

type AddressRequest struct {
	ID        int     `json:"id" validate:"gte=0"`
	Location  string  `json:"location" validate:"max=250"`
	Lat       float64 `json:"lat" validate:"latitude"`
	Lng       float64 `json:"lng" validate:"longitude"`
	CompanyID int     `json:"companyId" validate:"required,gt=0"`
}

type AddressResponse struct {
	ID        int     `json:"id"`
	Location  string  `json:"location"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	CompanyID int     `json:"companyId"`
}
