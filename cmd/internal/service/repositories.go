package service

import (
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
)

type CompanyRepository interface {
	FindAll() ([]*entity.Company, error)
	FindByID(id int) (*entity.Company, error)
	FindAllInIDs(ids []int) ([]*entity.Company, error)
	FindProviders() ([]*entity.Company, error)
	ExistsByID(id int) (bool, error)
	Search(filter *repository.CompanyFilter) ([]*entity.Company, error)
	Create(company *entity.Company, address *entity.Address) error
	Update(company *entity.Company) (bool, error)
	UpdateLogo(id int, logoKey string, now int64) error
	Delete(id int) error
}

type AddressRepository interface {
	FindAll() ([]*entity.Address, error)
	FindByID(id int) (*entity.Address, error)
	FindByCompanyID(companyID int) (*entity.Address, error)
	FindAllInCompanyIDs(companyIDs []int) ([]*entity.Address, error)
	Create(address *entity.Address) error
	Update(address *entity.Address) (bool, error)
	Delete(address *entity.Address) error
}

type RateRepository interface {
	FindAll() ([]*entity.Rate, error)
	FindByID(id int) (*entity.Rate, error)
	FindByCompanyID(companyID int) ([]*entity.Rate, error)
	FindAllInCompanyIDs(companyIDs []int) ([]*entity.Rate, error)
	FindByUserID(userID string) ([]*entity.Rate, error)
	FindAllInUserIDs(userIDs []string) ([]*entity.Rate, error)
	FindByPair(userID string, companyID int) (*entity.Rate, error)
	Create(rate *entity.Rate) ([]*repository.ScoreChange, error)
	Update(rate *entity.Rate, previousCompanyID int) ([]*repository.ScoreChange, error)
	Delete(rate *entity.Rate) ([]*repository.ScoreChange, error)
	Reconcile() ([]*repository.ScoreChange, error)
}

type UserRepository interface {
	FindAllInIDs(ids []string) ([]*entity.User, error)
	FindAll() ([]*entity.User, error)
	FindByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByID(id string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Create(user *entity.User) error
	Update(user *entity.User) (bool, error)
	Delete(id string) ([]*repository.ScoreChange, error)
}

type ProviderRepository interface {
	Exists(companyID, providerID int) (bool, error)
	Create(link *entity.CompanyProvider) error
	Delete(companyID, providerID int) (bool, error)
	FindProvidersOf(companyID int) ([]*entity.Company, error)
	FindClientsOf(providerID int) ([]*entity.Company, error)
}

type ConnectionRepository interface {
	Save(conn *entity.Connection) error
	Delete(connID string) error
	FindByUserID(userID string) ([]string, error)
	FindAll() ([]string, error)
	FindStale(now int64, hbLimit int64) ([]*entity.Connection, error)
	UpdateHeartbeat(connID string, now int64) error
}
