package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/events"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	"bizdirectory/cmd/internal/infrastructure/aws/storage"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type CompanyService struct {
	CompanyRepo  CompanyRepository
	AddressRepo  AddressRepository
	RateRepo     RateRepository
	ProviderRepo ProviderRepository
	S3           storage.S3Client
	Events       EventBroadcaster
	Validate     *validator.Validate

	loader *companyLoader
}

func NewCompanyService(
	companyRepo CompanyRepository,
	addressRepo AddressRepository,
	rateRepo RateRepository,
	providerRepo ProviderRepository,
	s3 storage.S3Client,
	broadcaster EventBroadcaster,
	validate *validator.Validate,
) *CompanyService {
	return &CompanyService{
		CompanyRepo:  companyRepo,
		AddressRepo:  addressRepo,
		RateRepo:     rateRepo,
		ProviderRepo: providerRepo,
		S3:           s3,
		Events:       broadcaster,
		Validate:     validate,
		loader: &companyLoader{
			addressRepo: addressRepo,
			rateRepo:    rateRepo,
			storage:     s3,
		},
	}
}

func (s *CompanyService) GetCompanies() ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	companies, err := s.CompanyRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch companies: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.respond(companies)
}

func (s *CompanyService) GetCompany(id int) (*contract.CompanyResponse, apierror.ErrorResponse) {
	company, apierr := s.fetchCompany(id)
	if apierr != nil {
		return nil, apierr
	}

	if company == nil {
		return nil, apierror.NotFoundError
	}

	resp, err := s.loader.loadOne(company, true)
	if err != nil {
		log.Errorf("failed to load relations of company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	providers, err := s.ProviderRepo.FindProvidersOf(id)
	if err != nil {
		log.Errorf("failed to fetch providers of company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	resp.Providers = toCompanyBriefs(providers)
	return resp, nil
}

func (s *CompanyService) GetProviders() ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	providers, err := s.CompanyRepo.FindProviders()
	if err != nil {
		log.Errorf("failed to fetch providers: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.respond(providers)
}

// GetCompanyProviders lists the providers serving the company.
func (s *CompanyService) GetCompanyProviders(id int) ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	company, apierr := s.fetchCompany(id)
	if apierr != nil {
		return nil, apierr
	}

	if company == nil {
		return nil, apierror.NotFoundError
	}

	providers, err := s.ProviderRepo.FindProvidersOf(id)
	if err != nil {
		log.Errorf("failed to fetch providers of company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return s.respond(providers)
}

// GetProviderClients lists the companies served by the provider.
func (s *CompanyService) GetProviderClients(id int) ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	provider, apierr := s.fetchCompany(id)
	if apierr != nil {
		return nil, apierr
	}

	if provider == nil {
		return nil, apierror.NotFoundError
	}

	if !provider.IsProvider {
		return nil, apierror.NotAProviderError
	}

	clients, err := s.ProviderRepo.FindClientsOf(id)
	if err != nil {
		log.Errorf("failed to fetch clients of provider %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return s.respond(clients)
}

func (s *CompanyService) GetCompanyRatings(id int) ([]*contract.RateResponse, apierror.ErrorResponse) {
	exists, err := s.CompanyRepo.ExistsByID(id)
	if err != nil {
		log.Errorf("failed to check company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if !exists {
		return nil, apierror.CompanyNotFoundMsgError
	}

	rates, err := s.RateRepo.FindByCompanyID(id)
	if err != nil {
		log.Errorf("failed to fetch rates of company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toRateResponses(rates), nil
}

func (s *CompanyService) CreateCompany(req *contract.CompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if req.Address != nil {
		utils.Sanitize(req.Address)
	}

	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	company := &entity.Company{
		NIF:        req.NIF,
		Name:       req.Name,
		Mail:       req.Mail,
		Phone:      req.Phone,
		Tags:       req.Tags,
		IsProvider: req.IsProvider,
		IsRetail:   req.IsRetail,
		Score:      0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var address *entity.Address
	if req.Address != nil {
		address = &entity.Address{
			Location: req.Address.Location,
			Lat:      req.Address.Lat,
			Lng:      req.Address.Lng,
		}
	}

	if err := s.CompanyRepo.Create(company, address); err != nil {
		log.Errorf("failed to create company: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := s.loader.toResponse(company, address)
	resp.Rates = []*contract.RateResponse{}

	dispatch(s.Events, &events.CompanyCreated{CompanyResponse: resp})
	return resp, nil
}

// UpdateCompany overwrites the company fields. The score and the logo are
// kept, the embedded address is ignored (use the address routes).
func (s *CompanyService) UpdateCompany(id int, req *contract.CompanyRequest) apierror.ErrorResponse {
	if req.ID != id {
		return apierror.IDMismatchError
	}

	utils.Sanitize(req)
	req.Address = nil
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	company := &entity.Company{
		ID:         id,
		NIF:        req.NIF,
		Name:       req.Name,
		Mail:       req.Mail,
		Phone:      req.Phone,
		Tags:       req.Tags,
		IsProvider: req.IsProvider,
		IsRetail:   req.IsRetail,
		UpdatedAt:  utils.NowUTC(),
	}

	ok, err := s.CompanyRepo.Update(company)
	if err != nil {
		log.Errorf("failed to update company %d: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.NotFoundError
	}

	go s.dispatchCompanyUpdated(id)
	return nil
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id int) apierror.ErrorResponse {
	company, apierr := s.fetchCompany(id)
	if apierr != nil {
		return apierr
	}

	if company == nil {
		return apierror.NotFoundError
	}

	err := s.CompanyRepo.Delete(id)
	switch {
	case errors.Is(err, repository.ErrRestricted):
		return apierror.CompanyHasLinksError
	case errors.Is(err, repository.ErrNotFound):
		return apierror.NotFoundError
	case err != nil:
		log.Errorf("failed to delete company %d: %v", id, err)
		return apierror.InternalServerError
	}

	s.deleteLogo(ctx, company.LogoKey)
	dispatch(s.Events, &events.CompanyDeleted{CompanyID: id})
	return nil
}

// AddProvider links providerID as a provider of companyID.
func (s *CompanyService) AddProvider(companyID, providerID int) apierror.ErrorResponse {
	company, apierr := s.fetchCompany(companyID)
	if apierr != nil {
		return apierr
	}

	if company == nil {
		return apierror.CompanyNotFoundMsgError
	}

	provider, apierr := s.fetchCompany(providerID)
	if apierr != nil {
		return apierr
	}

	if provider == nil {
		return apierror.ProviderNotFoundError
	}

	if !provider.IsProvider {
		return apierror.NotAProviderMarkedError
	}

	linked, err := s.ProviderRepo.Exists(companyID, providerID)
	if err != nil {
		log.Errorf("failed to check provider link %d -> %d: %v", providerID, companyID, err)
		return apierror.InternalServerError
	}

	if linked {
		return apierror.AlreadyAssociatedError
	}

	err = s.ProviderRepo.Create(&entity.CompanyProvider{
		ProviderID: providerID,
		CompanyID:  companyID,
		CreatedAt:  utils.NowUTC(),
	})

	if errors.Is(err, repository.ErrDuplicate) {
		return apierror.AlreadyAssociatedError
	}

	if err != nil {
		log.Errorf("failed to link provider %d to company %d: %v", providerID, companyID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *CompanyService) RemoveProvider(companyID, providerID int) apierror.ErrorResponse {
	ok, err := s.ProviderRepo.Delete(companyID, providerID)
	if err != nil {
		log.Errorf("failed to unlink provider %d from company %d: %v", providerID, companyID, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.ProviderLinkNotFoundError
	}
	return nil
}

// UploadLogo stores the image as the company logo, replacing the previous one.
func (s *CompanyService) UploadLogo(ctx context.Context, id int, fileHeader *multipart.FileHeader) (*contract.CompanyResponse, apierror.ErrorResponse) {
	if s.S3 == nil {
		return nil, apierror.ServiceUnavailable
	}

	if fileHeader == nil {
		return nil, apierror.MissingFileError
	}

	if apierr := checkLogoFile(fileHeader); apierr != nil {
		return nil, apierr
	}

	company, apierr := s.fetchCompany(id)
	if apierr != nil {
		return nil, apierr
	}

	if company == nil {
		return nil, apierror.NotFoundError
	}

	data, apierr := readLogoFile(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	ext, _ := utils.CheckFileExt(fileHeader.Filename, contract.ValidLogoFileTypes)
	key, err := s.S3.UploadFile(ctx, data, uuid.NewString()+strings.ToLower(ext))
	if err != nil {
		log.Errorf("failed to upload logo of company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	if err = s.CompanyRepo.UpdateLogo(id, key, now); err != nil {
		log.Errorf("failed to save logo of company %d: %v", id, err)
		s.deleteLogo(ctx, key)
		return nil, apierror.InternalServerError
	}

	previous := company.LogoKey
	company.LogoKey = key
	company.UpdatedAt = now
	s.deleteLogo(ctx, previous)

	resp, err := s.loader.loadOne(company, true)
	if err != nil {
		log.Errorf("failed to load relations of company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	dispatch(s.Events, &events.CompanyUpdated{CompanyResponse: resp})
	return resp, nil
}

func (s *CompanyService) respond(companies []*entity.Company) ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	resp, err := s.loader.load(companies, true)
	if err != nil {
		log.Errorf("failed to load company relations: %v", err)
		return nil, apierror.InternalServerError
	}
	return resp, nil
}

func (s *CompanyService) fetchCompany(id int) (*entity.Company, apierror.ErrorResponse) {
	company, err := s.CompanyRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch company %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return company, nil
}

func (s *CompanyService) dispatchCompanyUpdated(id int) {
	if s.Events == nil {
		return
	}

	company, err := s.CompanyRepo.FindByID(id)
	if err != nil || company == nil {
		return
	}

	resp, err := s.loader.loadOne(company, true)
	if err != nil {
		log.Errorf("failed to build update event of company %d: %v", id, err)
		return
	}
	s.Events.Broadcast(context.Background(), &events.CompanyUpdated{CompanyResponse: resp})
}

// deleteLogo is idempotent, S3 does not fail on missing keys.
func (s *CompanyService) deleteLogo(ctx context.Context, key string) {
	if s.S3 == nil || key == "" {
		return
	}

	if err := s.S3.DeleteFile(ctx, key); err != nil {
		log.Errorf("failed to delete logo %s: %v", key, err)
	}
}

func checkLogoFile(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	if fileHeader.Size > contract.MaxLogoFileSizeBytes {
		return apierror.FileTooLargeError
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return apierror.MissingFileError
	}

	if _, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidLogoFileTypes); !ok {
		return apierror.InvalidFileExtError
	}
	return nil
}

func readLogoFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, contract.MaxLogoFileSizeBytes+1))
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}

	if len(data) > contract.MaxLogoFileSizeBytes {
		return nil, apierror.FileTooLargeError
	}
	return data, nil
}
