package repository

import (
	"bizdirectory/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

// CompanyFilter holds the search predicates that can be pushed down to SQL.
// Nil fields impose no constraint.
type CompanyFilter struct {
	// Query is matched case-sensitively as a substring of name, NIF or mail.
	Query      string
	IsProvider *bool
	IsRetail   *bool
	MinScore   *float64
}

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

func (r *DefaultCompanyRepository) FindAll() ([]*entity.Company, error) {
	var companies []*entity.Company
	err := r.db.Order("id").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *DefaultCompanyRepository) FindByID(id int) (*entity.Company, error) {
	var company entity.Company
	err := r.db.First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *DefaultCompanyRepository) FindAllInIDs(ids []int) ([]*entity.Company, error) {
	if len(ids) == 0 {
		return []*entity.Company{}, nil
	}

	var companies []*entity.Company
	err := r.db.Where("id IN ?", ids).Order("id").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *DefaultCompanyRepository) FindProviders() ([]*entity.Company, error) {
	var companies []*entity.Company
	err := r.db.Where("is_provider = ?", true).Order("id").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *DefaultCompanyRepository) ExistsByID(id int) (bool, error) {
	var exists int
	err := r.db.
		Raw("SELECT EXISTS(SELECT 1 FROM companies WHERE id = ?)", id).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (r *DefaultCompanyRepository) Search(filter *CompanyFilter) ([]*entity.Company, error) {
	query := r.db.Model(&entity.Company{})

	if filter.Query != "" {
		// instr() is case-sensitive, unlike LIKE.
		query = query.Where("(instr(name, ?) > 0 OR instr(nif, ?) > 0 OR instr(mail, ?) > 0)",
			filter.Query, filter.Query, filter.Query)
	}

	if filter.IsProvider != nil {
		query = query.Where("is_provider = ?", *filter.IsProvider)
	}

	if filter.IsRetail != nil {
		query = query.Where("is_retail = ?", *filter.IsRetail)
	}

	if filter.MinScore != nil {
		query = query.Where("score >= ?", *filter.MinScore)
	}

	var companies []*entity.Company
	err := query.Order("id").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// Create inserts the company and, when given, its address in one transaction.
func (r *DefaultCompanyRepository) Create(company *entity.Company, address *entity.Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}

		if address == nil {
			return nil
		}

		address.CompanyID = company.ID
		return translateError(tx.Create(address).Error)
	})
}

// Update overwrites the mutable columns of the company. Score, logo and
// creation time are left untouched. It returns false when no row matched.
func (r *DefaultCompanyRepository) Update(company *entity.Company) (bool, error) {
	result := r.db.Model(&entity.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]any{
			"nif":         company.NIF,
			"name":        company.Name,
			"mail":        company.Mail,
			"phone":       company.Phone,
			"tags":        company.Tags,
			"is_provider": company.IsProvider,
			"is_retail":   company.IsRetail,
			"updated_at":  company.UpdatedAt,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DefaultCompanyRepository) UpdateLogo(id int, logoKey string, now int64) error {
	return r.db.Model(&entity.Company{}).
		Where("id = ?", id).
		Updates(map[string]any{"logo_key": logoKey, "updated_at": now}).Error
}

// Delete removes the company together with its address and rates. It fails
// with ErrRestricted while the company takes part in any provider link.
func (r *DefaultCompanyRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var links int64
		err := tx.Model(&entity.CompanyProvider{}).
			Where("company_id = ? OR provider_id = ?", id, id).
			Count(&links).Error
		if err != nil {
			return err
		}

		if links > 0 {
			return ErrRestricted
		}

		if err := tx.Where("company_id = ?", id).Delete(&entity.Rate{}).Error; err != nil {
			return err
		}

		if err := tx.Where("company_id = ?", id).Delete(&entity.Address{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.Company{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
