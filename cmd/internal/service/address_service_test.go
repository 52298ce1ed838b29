package service

import (
	"testing"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := env.addressService()
	company := env.createCompany(t, "Forn Vell", false, nil)

	created, apierr := svc.CreateAddress(&contract.AddressRequest{
		Location:  "  Plaça Reial 3  ",
		Lat:       41.38,
		Lng:       2.17,
		CompanyID: company.ID,
	})
	require.Nil(t, apierr)
	assert.Equal(t, "Plaça Reial 3", created.Location)

	apierr = svc.UpdateAddress(created.ID, &contract.AddressRequest{
		ID:        created.ID,
		Location:  "Rambla 10",
		Lat:       41.39,
		Lng:       2.16,
		CompanyID: company.ID,
	})
	require.Nil(t, apierr)

	fetched, apierr := svc.GetAddress(created.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Rambla 10", fetched.Location)

	all, apierr := svc.GetAddresses()
	require.Nil(t, apierr)
	assert.Len(t, all, 1)

	require.Nil(t, svc.DeleteAddress(created.ID))
	_, apierr = svc.GetAddress(created.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestCreateAddressRules(t *testing.T) {
	env := newTestEnv(t)
	svc := env.addressService()
	company := env.createCompany(t, "Forn Vell", false, &contract.AddressInput{Lat: 41.4, Lng: 2.2})

	_, apierr := svc.CreateAddress(&contract.AddressRequest{Lat: 1, Lng: 1, CompanyID: 999})
	assert.Equal(t, apierror.CompanyNotExistError, apierr)

	_, apierr = svc.CreateAddress(&contract.AddressRequest{Lat: 1, Lng: 1, CompanyID: company.ID})
	assert.Equal(t, apierror.CompanyHasAddressError, apierr)

	_, apierr = svc.CreateAddress(&contract.AddressRequest{Lat: 91, Lng: 1, CompanyID: company.ID})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestUpdateAddressErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := env.addressService()
	company := env.createCompany(t, "Forn Vell", false, nil)

	apierr := svc.UpdateAddress(1, &contract.AddressRequest{ID: 2, CompanyID: company.ID})
	assert.Equal(t, apierror.IDMismatchError, apierr)

	apierr = svc.UpdateAddress(5, &contract.AddressRequest{ID: 5, CompanyID: company.ID})
	assert.Equal(t, apierror.NotFoundError, apierr)

	apierr = svc.UpdateAddress(5, &contract.AddressRequest{ID: 5, CompanyID: 999})
	assert.Equal(t, apierror.CompanyNotExistError, apierr)

	assert.Equal(t, apierror.NotFoundError, svc.DeleteAddress(5))
}
