package repository

import (
	"bizdirectory/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type DefaultRateRepository struct {
	db         *gorm.DB
	aggregator *ScoreAggregator
}

func NewRateRepository(db *gorm.DB, aggregator *ScoreAggregator) *DefaultRateRepository {
	return &DefaultRateRepository{db: db, aggregator: aggregator}
}

func (r *DefaultRateRepository) FindAll() ([]*entity.Rate, error) {
	var rates []*entity.Rate
	err := r.db.Order("id").Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *DefaultRateRepository) FindByID(id int) (*entity.Rate, error) {
	var rate entity.Rate
	err := r.db.First(&rate, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *DefaultRateRepository) FindByCompanyID(companyID int) ([]*entity.Rate, error) {
	return r.FindAllInCompanyIDs([]int{companyID})
}

func (r *DefaultRateRepository) FindAllInCompanyIDs(companyIDs []int) ([]*entity.Rate, error) {
	if len(companyIDs) == 0 {
		return []*entity.Rate{}, nil
	}

	var rates []*entity.Rate
	err := r.db.Where("company_id IN ?", companyIDs).Order("id").Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *DefaultRateRepository) FindByUserID(userID string) ([]*entity.Rate, error) {
	var rates []*entity.Rate
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *DefaultRateRepository) FindAllInUserIDs(userIDs []string) ([]*entity.Rate, error) {
	if len(userIDs) == 0 {
		return []*entity.Rate{}, nil
	}

	var rates []*entity.Rate
	err := r.db.Where("user_id IN ?", userIDs).Order("id").Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *DefaultRateRepository) FindByPair(userID string, companyID int) (*entity.Rate, error) {
	var rate entity.Rate
	err := r.db.
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// Create inserts the rate and recomputes the company score in the same
// transaction. A second rate for the same (user, company) pair fails with
// ErrDuplicate.
func (r *DefaultRateRepository) Create(rate *entity.Rate) ([]*ScoreChange, error) {
	var changes []*ScoreChange
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rate).Error; err != nil {
			return translateError(err)
		}

		change, err := r.aggregator.Recompute(tx, rate.CompanyID)
		if err != nil {
			return err
		}
		changes = append(changes, change)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return changes, nil
}

// Update overwrites the rate and recomputes the score of its company, and of
// the company it previously belonged to when that changed.
func (r *DefaultRateRepository) Update(rate *entity.Rate, previousCompanyID int) ([]*ScoreChange, error) {
	var changes []*ScoreChange
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Rate{}).
			Where("id = ?", rate.ID).
			Updates(map[string]any{
				"user_id":    rate.UserID,
				"company_id": rate.CompanyID,
				"score":      rate.Score,
				"updated_at": rate.UpdatedAt,
			})

		if result.Error != nil {
			return translateError(result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		companyIDs := []int{rate.CompanyID}
		if previousCompanyID != rate.CompanyID {
			companyIDs = append(companyIDs, previousCompanyID)
		}

		for _, id := range companyIDs {
			change, err := r.aggregator.Recompute(tx, id)
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return changes, nil
}

// Delete removes the rate and recomputes the score of the company it belonged to.
func (r *DefaultRateRepository) Delete(rate *entity.Rate) ([]*ScoreChange, error) {
	companyID := rate.CompanyID

	var changes []*ScoreChange
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entity.Rate{}, rate.ID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		change, err := r.aggregator.Recompute(tx, companyID)
		if err != nil {
			return err
		}
		changes = append(changes, change)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return changes, nil
}

// Reconcile recomputes the score of every company and returns the ones whose
// stored score had drifted from their rates.
func (r *DefaultRateRepository) Reconcile() ([]*ScoreChange, error) {
	var drifted []*ScoreChange
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var companies []*entity.Company
		if err := tx.Select("id", "score").Find(&companies).Error; err != nil {
			return err
		}

		for _, c := range companies {
			change, err := r.aggregator.Recompute(tx, c.ID)
			if err != nil {
				return err
			}

			if change.Score != c.Score {
				drifted = append(drifted, change)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return drifted, nil
}
