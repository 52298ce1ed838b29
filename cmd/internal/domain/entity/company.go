package entity

type Company struct {
	ID         int    `gorm:"primaryKey"`
	NIF        string `gorm:"column:nif;not null;index"`
	Name       string `gorm:"not null"`
	Mail       string `gorm:"not null;default:''"`
	Phone      int    `gorm:"not null;default:0"`
	Tags       string `gorm:"not null;default:''"`
	IsProvider bool   `gorm:"not null;default:false;index"`
	IsRetail   bool   `gorm:"not null;default:false"`
	LogoKey    string `gorm:"not null;default:''"`
	CreatedAt  int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt  int64  `gorm:"not null;autoUpdateTime:false"`

	// Score is derived from the rates table and is only ever written by
	// repository.ScoreAggregator. It is the mean of all rate scores of the
	// company, or 0 when the company has no rates.
	Score float64 `gorm:"not null;default:0"`
}

// CompanyProvider links a provider company to a company it serves.
//
// Neither side cascades: a company that still takes part in a link cannot
// be deleted until the link is removed.
type CompanyProvider struct {
	ProviderID int   `gorm:"primaryKey;autoIncrement:false"`
	CompanyID  int   `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  int64 `gorm:"not null;autoCreateTime:false"`
}
