package service

import (
	"context"
	"sync"
	"testing"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/events"
	"bizdirectory/cmd/internal/domain/sqlite"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	"bizdirectory/cmd/internal/utils/validators"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	companies *repository.DefaultCompanyRepository
	addresses *repository.DefaultAddressRepository
	rates     *repository.DefaultRateRepository
	users     *repository.DefaultUserRepository
	providers *repository.DefaultProviderRepository
	events    *recordingBroadcaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.Init(sqlite.MemoryPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	aggregator := repository.NewScoreAggregator()
	return &testEnv{
		db:        db,
		companies: repository.NewCompanyRepository(db),
		addresses: repository.NewAddressRepository(db),
		rates:     repository.NewRateRepository(db, aggregator),
		users:     repository.NewUserRepository(db, aggregator),
		providers: repository.NewProviderRepository(db),
		events:    &recordingBroadcaster{},
	}
}

func (e *testEnv) companyService() *CompanyService {
	return NewCompanyService(e.companies, e.addresses, e.rates, e.providers, nil, e.events, validators.New())
}

func (e *testEnv) addressService() *AddressService {
	return NewAddressService(e.addresses, e.companies, validators.New())
}

func (e *testEnv) rateService() *RateService {
	return NewRateService(e.rates, e.companies, e.users, e.events, validators.New())
}

func (e *testEnv) searchService() *SearchService {
	return NewSearchService(e.companies, e.addresses, e.rates, nil, validators.New())
}

func (e *testEnv) createCompany(t *testing.T, name string, provider bool, address *contract.AddressInput) *contract.CompanyResponse {
	t.Helper()
	resp, apierr := e.companyService().CreateCompany(&contract.CompanyRequest{
		NIF:        "12345678Z",
		Name:       name,
		Mail:       "info@example.com",
		Tags:       "food",
		IsProvider: provider,
		Address:    address,
	})
	require.Nil(t, apierr)
	return resp
}

func (e *testEnv) createUser(t *testing.T, id string) *entity.User {
	t.Helper()
	user := &entity.User{ID: id, Email: id + "@example.com", Username: id}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) rate(t *testing.T, userID string, companyID int, score float64) *contract.RateResponse {
	t.Helper()
	resp, apierr := e.rateService().CreateRate(&contract.RateRequest{
		UserID:    userID,
		CompanyID: companyID,
		Score:     score,
	})
	require.Nil(t, apierr)
	return resp
}

func (e *testEnv) score(t *testing.T, companyID int) float64 {
	t.Helper()
	company, err := e.companies.FindByID(companyID)
	require.NoError(t, err)
	require.NotNil(t, company)
	return company.Score
}

// recordingBroadcaster keeps every event it is asked to broadcast.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []events.SocketEvent
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, evt events.SocketEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingBroadcaster) ofType(t contract.EventType) []events.SocketEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []events.SocketEvent
	for _, evt := range r.events {
		if evt.GetType() == t {
			out = append(out, evt)
		}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
