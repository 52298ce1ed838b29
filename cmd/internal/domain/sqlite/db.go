package sqlite

import (
	"bizdirectory/cmd/internal/domain/entity"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database, used by tests.
const MemoryPath = ":memory:"

func Init(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite only handles one writer at a time, and an in-memory database
	// only lives as long as its single connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if dbPath != MemoryPath {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&entity.Company{},
		&entity.Address{},
		&entity.User{},
		&entity.Rate{},
		&entity.CompanyProvider{},
		&entity.Connection{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
