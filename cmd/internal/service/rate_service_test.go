package service

import (
	"testing"
	"time"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/events"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRateRecomputesScore(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.createUser(t, "u1")
	env.createUser(t, "u2")

	env.rate(t, "u1", company.ID, 4)
	env.rate(t, "u2", company.ID, 5)

	assert.Equal(t, 4.5, env.score(t, company.ID))
	assert.Eventually(t, func() bool {
		for _, evt := range env.events.ofType(contract.EventCompanyScoreUpdated) {
			if evt.(*events.CompanyScoreUpdated).Score == 4.5 {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestCreateRateChecksReferencesInOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rateService()
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.createUser(t, "u1")

	_, apierr := svc.CreateRate(&contract.RateRequest{UserID: "ghost", CompanyID: 999, Score: 3})
	assert.Equal(t, apierror.CompanyNotExistError, apierr)

	_, apierr = svc.CreateRate(&contract.RateRequest{UserID: "ghost", CompanyID: company.ID, Score: 3})
	assert.Equal(t, apierror.UserNotExistError, apierr)

	env.rate(t, "u1", company.ID, 3)
	_, apierr = svc.CreateRate(&contract.RateRequest{UserID: "u1", CompanyID: company.ID, Score: 1})
	assert.Equal(t, apierror.DuplicateRatingError, apierr)
	assert.Equal(t, 3.0, env.score(t, company.ID))
}

func TestCreateRateScoreBounds(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.createUser(t, "u1")

	for _, score := range []float64{0, 5.5, -1} {
		_, apierr := env.rateService().CreateRate(&contract.RateRequest{UserID: "u1", CompanyID: company.ID, Score: score})
		require.NotNil(t, apierr, "score %v", score)
		assert.Equal(t, 400, apierr.Code())
	}
}

func TestUpdateRateMovesBetweenCompanies(t *testing.T) {
	env := newTestEnv(t)
	first := env.createCompany(t, "Forn Vell", false, nil)
	second := env.createCompany(t, "Forn Nou", false, nil)
	env.createUser(t, "u1")
	env.createUser(t, "u2")
	moved := env.rate(t, "u1", first.ID, 2)
	env.rate(t, "u2", first.ID, 4)

	apierr := env.rateService().UpdateRate(moved.ID, &contract.RateRequest{
		ID:        moved.ID,
		UserID:    "u1",
		CompanyID: second.ID,
		Score:     5,
	})
	require.Nil(t, apierr)

	assert.Equal(t, 4.0, env.score(t, first.ID))
	assert.Equal(t, 5.0, env.score(t, second.ID))
}

func TestUpdateRateErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rateService()
	company := env.createCompany(t, "Forn Vell", false, nil)
	other := env.createCompany(t, "Forn Nou", false, nil)
	env.createUser(t, "u1")
	rate := env.rate(t, "u1", company.ID, 2)
	env.rate(t, "u1", other.ID, 3)

	apierr := svc.UpdateRate(rate.ID, &contract.RateRequest{ID: rate.ID + 1, UserID: "u1", CompanyID: company.ID, Score: 3})
	assert.Equal(t, apierror.IDMismatchError, apierr)

	apierr = svc.UpdateRate(999, &contract.RateRequest{ID: 999, UserID: "u1", CompanyID: company.ID, Score: 3})
	assert.Equal(t, apierror.NotFoundError, apierr)

	apierr = svc.UpdateRate(rate.ID, &contract.RateRequest{ID: rate.ID, UserID: "u1", CompanyID: other.ID, Score: 3})
	assert.Equal(t, apierror.DuplicateRatingError, apierr)

	apierr = svc.UpdateRate(rate.ID, &contract.RateRequest{ID: rate.ID, UserID: "ghost", CompanyID: company.ID, Score: 3})
	assert.Equal(t, apierror.UserNotExistError, apierr)
}

func TestDeleteLastRateResetsScore(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.createUser(t, "u1")
	rate := env.rate(t, "u1", company.ID, 5)

	require.Nil(t, env.rateService().DeleteRate(rate.ID))

	assert.Zero(t, env.score(t, company.ID))
	assert.Equal(t, apierror.NotFoundError, env.rateService().DeleteRate(rate.ID))
}

func TestRatesByCompanyAndUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rateService()
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.createUser(t, "u1")
	env.rate(t, "u1", company.ID, 5)

	byCompany, apierr := svc.GetRatesByCompany(company.ID)
	require.Nil(t, apierr)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Forn Vell", byCompany[0].CompanyName)
	assert.Equal(t, "u1", byCompany[0].UserName)

	byUser, apierr := svc.GetRatesByUser("u1")
	require.Nil(t, apierr)
	assert.Len(t, byUser, 1)

	_, apierr = svc.GetRatesByCompany(999)
	assert.Equal(t, apierror.CompanyNotFoundMsgError, apierr)

	_, apierr = svc.GetRatesByUser("ghost")
	assert.Equal(t, apierror.UserNotFoundMsgError, apierr)

	_, apierr = svc.GetRate(999)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestReconcileScoresFixesDrift(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t, "Forn Vell", false, nil)
	env.createUser(t, "u1")
	env.rate(t, "u1", company.ID, 4)
	require.NoError(t, env.db.Exec("UPDATE companies SET score = 1 WHERE id = ?", company.ID).Error)

	drifted, err := env.rateService().ReconcileScores()

	require.NoError(t, err)
	assert.Equal(t, 1, drifted)
	assert.Equal(t, 4.0, env.score(t, company.ID))
}
