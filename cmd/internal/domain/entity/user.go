package entity

// User is a directory user. The ID is the subject ("sub") issued by the
// identity provider when the account is registered.
type User struct {
	ID          string `gorm:"primaryKey;autoIncrement:false"`
	Email       string `gorm:"not null;uniqueIndex"`
	Username    string `gorm:"not null;default:''"`
	PhoneNumber string `gorm:"not null;default:''"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:false"`
}
