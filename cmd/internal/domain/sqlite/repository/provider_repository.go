package repository

import (
	"bizdirectory/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *DefaultProviderRepository {
	return &DefaultProviderRepository{db: db}
}

func (p *DefaultProviderRepository) Exists(companyID, providerID int) (bool, error) {
	var exists int
	err := p.db.
		Raw("SELECT EXISTS(SELECT 1 FROM company_providers WHERE company_id = ? AND provider_id = ?)",
			companyID, providerID).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (p *DefaultProviderRepository) Create(link *entity.CompanyProvider) error {
	return translateError(p.db.Create(link).Error)
}

// Delete removes the link and returns false when there was none.
func (p *DefaultProviderRepository) Delete(companyID, providerID int) (bool, error) {
	result := p.db.
		Where("company_id = ? AND provider_id = ?", companyID, providerID).
		Delete(&entity.CompanyProvider{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindProvidersOf returns the providers serving the company.
func (p *DefaultProviderRepository) FindProvidersOf(companyID int) ([]*entity.Company, error) {
	var providers []*entity.Company
	err := p.db.
		Joins("JOIN company_providers cp ON cp.provider_id = companies.id").
		Where("cp.company_id = ?", companyID).
		Order("companies.id").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

// FindClientsOf returns the companies the provider serves.
func (p *DefaultProviderRepository) FindClientsOf(providerID int) ([]*entity.Company, error) {
	var clients []*entity.Company
	err := p.db.
		Joins("JOIN company_providers cp ON cp.company_id = companies.id").
		Where("cp.provider_id = ?", providerID).
		Order("companies.id").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
