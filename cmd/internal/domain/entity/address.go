package entity

type Address struct {
	ID        int     `gorm:"primaryKey"`
	Location  string  `gorm:"not null;default:''"`
	Lat       float64 `gorm:"not null"`
	Lng       float64 `gorm:"not null"`
	CompanyID int     `gorm:"not null;uniqueIndex"` // References: companies(id), one-to-one
}
