package repository

import (
	"testing"

	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/sqlite"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Init(sqlite.MemoryPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name string, provider bool) *entity.Company {
	t.Helper()
	company := &entity.Company{NIF: "12345678Z", Name: name, Tags: "food", IsProvider: provider}
	require.NoError(t, db.Create(company).Error)
	return company
}

func seedUser(t *testing.T, db *gorm.DB, id string) *entity.User {
	t.Helper()
	user := &entity.User{ID: id, Email: id + "@example.com", Username: id}
	require.NoError(t, db.Create(user).Error)
	return user
}

func companyScore(t *testing.T, db *gorm.DB, id int) float64 {
	t.Helper()
	var company entity.Company
	require.NoError(t, db.First(&company, id).Error)
	return company.Score
}
