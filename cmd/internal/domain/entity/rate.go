package entity

type Rate struct {
	ID        int     `gorm:"primaryKey"`
	UserID    string  `gorm:"not null;uniqueIndex:idx_rate_user_company"`       // References: users(id)
	CompanyID int     `gorm:"not null;index;uniqueIndex:idx_rate_user_company"` // References: companies(id)
	Score     float64 `gorm:"not null"`
	CreatedAt int64   `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64   `gorm:"not null;autoUpdateTime:false"`
}
