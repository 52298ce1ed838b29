package repository

import (
	"bizdirectory/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db         *gorm.DB
	aggregator *ScoreAggregator
}

func NewUserRepository(db *gorm.DB, aggregator *ScoreAggregator) *DefaultUserRepository {
	return &DefaultUserRepository{db: db, aggregator: aggregator}
}

func (u *DefaultUserRepository) FindAllInIDs(ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	var users []*entity.User
	err := u.db.Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindAll() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Order("created_at, id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindByID(id string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByID(id string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) Create(user *entity.User) error {
	return translateError(u.db.Create(user).Error)
}

// Update overwrites the profile columns. It returns false when no row matched.
func (u *DefaultUserRepository) Update(user *entity.User) (bool, error) {
	result := u.db.Model(&entity.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email":        user.Email,
			"username":     user.Username,
			"phone_number": user.PhoneNumber,
			"updated_at":   user.UpdatedAt,
		})

	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the user and every rate they gave, recomputing the score of
// each company that lost a rate.
func (u *DefaultUserRepository) Delete(id string) ([]*ScoreChange, error) {
	var changes []*ScoreChange
	err := u.db.Transaction(func(tx *gorm.DB) error {
		var companyIDs []int
		err := tx.Model(&entity.Rate{}).
			Where("user_id = ?", id).
			Distinct().
			Pluck("company_id", &companyIDs).Error
		if err != nil {
			return err
		}

		if err = tx.Where("user_id = ?", id).Delete(&entity.Rate{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&entity.User{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		for _, companyID := range companyIDs {
			change, err := u.aggregator.Recompute(tx, companyID)
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
