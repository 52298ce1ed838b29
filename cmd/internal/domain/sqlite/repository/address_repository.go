package repository

import (
	"bizdirectory/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type DefaultAddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *DefaultAddressRepository {
	return &DefaultAddressRepository{db: db}
}

func (r *DefaultAddressRepository) FindAll() ([]*entity.Address, error) {
	var addresses []*entity.Address
	err := r.db.Order("id").Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *DefaultAddressRepository) FindByID(id int) (*entity.Address, error) {
	var address entity.Address
	err := r.db.First(&address, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *DefaultAddressRepository) FindByCompanyID(companyID int) (*entity.Address, error) {
	var address entity.Address
	err := r.db.Where("company_id = ?", companyID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *DefaultAddressRepository) FindAllInCompanyIDs(companyIDs []int) ([]*entity.Address, error) {
	if len(companyIDs) == 0 {
		return []*entity.Address{}, nil
	}

	var addresses []*entity.Address
	err := r.db.Where("company_id IN ?", companyIDs).Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *DefaultAddressRepository) Create(address *entity.Address) error {
	return translateError(r.db.Create(address).Error)
}

// Update overwrites the address row. It returns false when no row matched.
func (r *DefaultAddressRepository) Update(address *entity.Address) (bool, error) {
	result := r.db.Model(&entity.Address{}).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"location":   address.Location,
			"lat":        address.Lat,
			"lng":        address.Lng,
			"company_id": address.CompanyID,
		})

	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultAddressRepository) Delete(address *entity.Address) error {
	return r.db.Delete(address).Error
}
