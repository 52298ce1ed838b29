package service

import (
	"errors"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AddressService struct {
	AddressRepo AddressRepository
	CompanyRepo CompanyRepository
	Validate    *validator.Validate
}

func NewAddressService(addressRepo AddressRepository, companyRepo CompanyRepository, validate *validator.Validate) *AddressService {
	return &AddressService{
		AddressRepo: addressRepo,
		CompanyRepo: companyRepo,
		Validate:    validate,
	}
}

func (s *AddressService) GetAddresses() ([]*contract.AddressResponse, apierror.ErrorResponse) {
	addresses, err := s.AddressRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch addresses: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.AddressResponse, len(addresses))
	for i, a := range addresses {
		resp[i] = toAddressResponse(a)
	}
	return resp, nil
}

func (s *AddressService) GetAddress(id int) (*contract.AddressResponse, apierror.ErrorResponse) {
	address, err := s.AddressRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch address %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if address == nil {
		return nil, apierror.NotFoundError
	}
	return toAddressResponse(address), nil
}

func (s *AddressService) CreateAddress(req *contract.AddressRequest) (*contract.AddressResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := s.checkCompany(req.CompanyID); apierr != nil {
		return nil, apierr
	}

	existing, err := s.AddressRepo.FindByCompanyID(req.CompanyID)
	if err != nil {
		log.Errorf("failed to fetch address of company %d: %v", req.CompanyID, err)
		return nil, apierror.InternalServerError
	}

	if existing != nil {
		return nil, apierror.CompanyHasAddressError
	}

	address := &entity.Address{
		Location:  req.Location,
		Lat:       req.Lat,
		Lng:       req.Lng,
		CompanyID: req.CompanyID,
	}

	err = s.AddressRepo.Create(address)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apierror.CompanyHasAddressError
	}

	if err != nil {
		log.Errorf("failed to create address: %v", err)
		return nil, apierror.InternalServerError
	}
	return toAddressResponse(address), nil
}

func (s *AddressService) UpdateAddress(id int, req *contract.AddressRequest) apierror.ErrorResponse {
	if req.ID != id {
		return apierror.IDMismatchError
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if apierr := s.checkCompany(req.CompanyID); apierr != nil {
		return apierr
	}

	ok, err := s.AddressRepo.Update(&entity.Address{
		ID:        id,
		Location:  req.Location,
		Lat:       req.Lat,
		Lng:       req.Lng,
		CompanyID: req.CompanyID,
	})

	if errors.Is(err, repository.ErrDuplicate) {
		return apierror.CompanyHasAddressError
	}

	if err != nil {
		log.Errorf("failed to update address %d: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.NotFoundError
	}
	return nil
}

func (s *AddressService) DeleteAddress(id int) apierror.ErrorResponse {
	address, err := s.AddressRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch address %d: %v", id, err)
		return apierror.InternalServerError
	}

	if address == nil {
		return apierror.NotFoundError
	}

	if err = s.AddressRepo.Delete(address); err != nil {
		log.Errorf("failed to delete address %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *AddressService) checkCompany(companyID int) apierror.ErrorResponse {
	exists, err := s.CompanyRepo.ExistsByID(companyID)
	if err != nil {
		log.Errorf("failed to check company %d: %v", companyID, err)
		return apierror.InternalServerError
	}

	if !exists {
		return apierror.CompanyNotExistError
	}
	return nil
}
