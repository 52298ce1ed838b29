package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/sqlite"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	"bizdirectory/cmd/internal/http/handler"
	"bizdirectory/cmd/internal/service"
	"bizdirectory/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := sqlite.Init(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	validate := validators.New()
	aggregator := repository.NewScoreAggregator()
	companyRepo := repository.NewCompanyRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	rateRepo := repository.NewRateRepository(db, aggregator)
	userRepo := repository.NewUserRepository(db, aggregator)
	providerRepo := repository.NewProviderRepository(db)

	e := echo.New()
	Register(e, &Handlers{
		Companies: handler.NewCompanyDefault(service.NewCompanyService(companyRepo, addressRepo, rateRepo, providerRepo, nil, nil, validate)),
		Addresses: handler.NewAddressDefault(service.NewAddressService(addressRepo, companyRepo, validate)),
		Rates:     handler.NewRateDefault(service.NewRateService(rateRepo, companyRepo, userRepo, nil, validate)),
		Search:    handler.NewSearchDefault(service.NewSearchService(companyRepo, addressRepo, rateRepo, nil, validate)),
		Users:     handler.NewUserDefault(service.NewUserService(userRepo, rateRepo, nil, nil, nil, validate)),
	}, passThrough, passThrough)
	return e, db
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createCompany(t *testing.T, e *echo.Echo, name string, provider bool, address string) *contract.CompanyResponse {
	t.Helper()
	body := fmt.Sprintf(`{"nif":"12345678Z","name":%q,"tags":"food","isProvider":%t`, name, provider)
	if address != "" {
		body += `,"address":` + address
	}
	body += "}"

	rec := do(e, http.MethodPost, "/api/Companies", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[*contract.CompanyResponse](t, rec)
}

func TestCompanyRoutes(t *testing.T) {
	e, _ := newTestServer(t)

	company := createCompany(t, e, "Forn Vell", false, `{"location":"Barcelona","lat":41.3851,"lng":2.1734}`)
	assert.Zero(t, company.Score)

	rec := do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d", company.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[map[string]any](t, rec)
	assert.Equal(t, "Forn Vell", fetched["name"])
	assert.Contains(t, fetched, "rates")
	assert.Contains(t, fetched, "address")

	rec = do(e, http.MethodPut, fmt.Sprintf("/api/Companies/%d", company.ID),
		fmt.Sprintf(`{"id":%d,"nif":"12345678Z","name":"Forn Nou"}`, company.ID))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodPut, fmt.Sprintf("/api/Companies/%d", company.ID),
		fmt.Sprintf(`{"id":%d,"nif":"12345678Z","name":"Forn Nou"}`, company.ID+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/api/Companies/%d", company.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d", company.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCreateCompanySetsLocation(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/Companies", `{"nif":"12345678Z","name":"Forn Vell"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[*contract.CompanyResponse](t, rec)
	assert.True(t, strings.HasSuffix(rec.Header().Get(echo.HeaderLocation), fmt.Sprintf("/api/Companies/%d", created.ID)))
}

func TestCompanyRoutesBadInput(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/Companies/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/Companies", `{"nif":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/Companies", `{"nif":"","name":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]map[string][]string](t, rec)
	assert.Contains(t, body["errors"], "nif")
	assert.Contains(t, body["errors"], "name")
}

func TestProviderRoutes(t *testing.T) {
	e, _ := newTestServer(t)
	provider := createCompany(t, e, "Majorista", true, "")
	client := createCompany(t, e, "Botiga", false, "")

	rec := do(e, http.MethodPost, fmt.Sprintf("/api/Companies/%d/providers/%d", client.ID, provider.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/Companies/providers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*contract.CompanyResponse](t, rec), 1)

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d/providers", client.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*contract.CompanyResponse](t, rec), 1)

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d/clients", provider.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*contract.CompanyResponse](t, rec), 1)

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d/clients", client.ID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/api/Companies/%d", provider.ID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/api/Companies/%d/providers/%d", client.ID, provider.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/api/Companies/%d/providers/%d", client.ID, provider.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateRoutes(t *testing.T) {
	e, db := newTestServer(t)
	company := createCompany(t, e, "Forn Vell", false, "")
	require.NoError(t, db.Create(&entity.User{ID: "u1", Email: "u1@example.com", Username: "u1"}).Error)

	body := fmt.Sprintf(`{"userId":"u1","companyId":%d,"score":4}`, company.ID)
	rec := do(e, http.MethodPost, "/api/Rates", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rate := decode[*contract.RateResponse](t, rec)

	rec = do(e, http.MethodPost, "/api/Rates", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already rated")

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d/ratings", company.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*contract.RateResponse](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/Rates/user/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/Rates/user/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")

	rec = do(e, http.MethodGet, "/api/Rates/company/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Company not found")

	rec = do(e, http.MethodPut, fmt.Sprintf("/api/Rates/%d", rate.ID),
		fmt.Sprintf(`{"id":%d,"userId":"u1","companyId":%d,"score":2}`, rate.ID, company.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, fmt.Sprintf("/api/Companies/%d", company.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, decode[*contract.CompanyResponse](t, rec).Score)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/api/Rates/%d", rate.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSearchRoutes(t *testing.T) {
	e, _ := newTestServer(t)
	bcn := createCompany(t, e, "Forn Barcelona", false, `{"lat":41.3851,"lng":2.1734}`)
	createCompany(t, e, "Ferreteria Madrid", true, `{"lat":40.4168,"lng":-3.7038}`)

	rec := do(e, http.MethodGet, "/api/Search/nearby?lat=41.4&lng=2.2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	near := decode[[]map[string]any](t, rec)
	require.Len(t, near, 1)
	assert.Equal(t, float64(bcn.ID), near[0]["id"])
	assert.InDelta(t, 2.77, near[0]["distance"], 0.05)

	rec = do(e, http.MethodGet, "/api/Search/nearby?lat=41.4&lng=2.2&distance=600&isProvider=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/Search/nearby?lng=2.2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/Search/companies?query=Forn&tags=FOOD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]*contract.CompanyResponse](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/Search/companies?isRetail=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRoutesRejectNonFiniteNumbers(t *testing.T) {
	e, _ := newTestServer(t)
	createCompany(t, e, "Forn Barcelona", false, `{"lat":41.3851,"lng":2.1734}`)

	paths := []string{
		"/api/Search/companies?minScore=NaN",
		"/api/Search/companies?minScore=-Inf",
		"/api/Search/nearby?lat=NaN&lng=2.2",
		"/api/Search/nearby?lat=41.4&lng=+Inf",
		"/api/Search/nearby?lat=41.4&lng=2.2&distance=Infinity",
	}
	for _, path := range paths {
		rec := do(e, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "invalid type", path)
	}
}

func TestUserRoutesWithoutIdentityProvider(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/Users", `{"email":"anna@example.com","password":"Secr3t!pass"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(e, http.MethodGet, "/api/Users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = do(e, http.MethodGet, "/api/Users/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bizdirectory_scores_recomputed_total")
}
