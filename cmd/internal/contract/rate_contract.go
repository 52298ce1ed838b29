package contract

const (
	MinRateScore = 1
	MaxRateScore = 5
)

type RateRequest struct {
	ID        int     `json:"id" validate:"gte=0"`
	UserID    string  `json:"userId" validate:"required,max=128"`
	CompanyID int     `json:"companyId" validate:"required,gt=0"`
	Score     float64 `json:"score" validate:"gte=1,lte=5"`
}

type RateResponse struct {
	ID          int     `json:"id"`
	UserID      string  `json:"userId"`
	UserName    string  `json:"userName,omitempty"`
	CompanyID   int     `json:"companyId"`
	CompanyName string  `json:"companyName,omitempty"`
	Score       float64 `json:"score"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
