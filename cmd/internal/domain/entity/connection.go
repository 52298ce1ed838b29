package entity

const (
	HeartbeatPeriodMillis    = int64(60 * 1000)
	HeartbeatToleranceMillis = int64(10 * 1000)
)

// Connection is an open API Gateway websocket connection of a user.
type Connection struct {
	ConnectionID    string `gorm:"primaryKey;autoIncrement:false"`
	UserID          string `gorm:"not null;index"`
	ExpiresAt       int64  `gorm:"not null"`
	LastHeartbeatAt int64  `gorm:"not null;index"`
	CreatedAt       int64  `gorm:"not null;autoCreateTime:false"`
}
