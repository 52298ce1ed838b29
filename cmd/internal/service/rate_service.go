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

type RateService struct {
	RateRepo    RateRepository
	CompanyRepo CompanyRepository
	UserRepo    UserRepository
	Events      EventBroadcaster
	Validate    *validator.Validate
}

func NewRateService(
	rateRepo RateRepository,
	companyRepo CompanyRepository,
	userRepo UserRepository,
	broadcaster EventBroadcaster,
	validate *validator.Validate,
) *RateService {
	return &RateService{
		RateRepo:    rateRepo,
		CompanyRepo: companyRepo,
		UserRepo:    userRepo,
		Events:      broadcaster,
		Validate:    validate,
	}
}

func (s *RateService) GetRates() ([]*contract.RateResponse, apierror.ErrorResponse) {
	rates, err := s.RateRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch rates: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.respond(rates)
}

func (s *RateService) GetRate(id int) (*contract.RateResponse, apierror.ErrorResponse) {
	rate, err := s.RateRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch rate %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if rate == nil {
		return nil, apierror.NotFoundError
	}

	resp, apierr := s.respond([]*entity.Rate{rate})
	if apierr != nil {
		return nil, apierr
	}
	return resp[0], nil
}

func (s *RateService) GetRatesByCompany(companyID int) ([]*contract.RateResponse, apierror.ErrorResponse) {
	exists, err := s.CompanyRepo.ExistsByID(companyID)
	if err != nil {
		log.Errorf("failed to check company %d: %v", companyID, err)
		return nil, apierror.InternalServerError
	}

	if !exists {
		return nil, apierror.CompanyNotFoundMsgError
	}

	rates, err := s.RateRepo.FindByCompanyID(companyID)
	if err != nil {
		log.Errorf("failed to fetch rates of company %d: %v", companyID, err)
		return nil, apierror.InternalServerError
	}
	return s.respond(rates)
}

func (s *RateService) GetRatesByUser(userID string) ([]*contract.RateResponse, apierror.ErrorResponse) {
	exists, err := s.UserRepo.ExistsByID(userID)
	if err != nil {
		log.Errorf("failed to check user %s: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	if !exists {
		return nil, apierror.UserNotFoundMsgError
	}

	rates, err := s.RateRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch rates of user %s: %v", userID, err)
		return nil, apierror.InternalServerError
	}
	return s.respond(rates)
}

// CreateRate stores a new rate and recomputes the company score. A user can
// only rate a company once.
func (s *RateService) CreateRate(req *contract.RateRequest) (*contract.RateResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := s.checkReferences(req.CompanyID, req.UserID); apierr != nil {
		return nil, apierr
	}

	existing, err := s.RateRepo.FindByPair(req.UserID, req.CompanyID)
	if err != nil {
		log.Errorf("failed to check existing rate: %v", err)
		return nil, apierror.InternalServerError
	}

	if existing != nil {
		return nil, apierror.DuplicateRatingError
	}

	now := utils.NowUTC()
	rate := &entity.Rate{
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		Score:     req.Score,
		CreatedAt: now,
		UpdatedAt: now,
	}

	changes, err := s.RateRepo.Create(rate)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race against a concurrent create for the same pair
		return nil, apierror.DuplicateRatingError
	}

	if err != nil {
		log.Errorf("failed to create rate: %v", err)
		return nil, apierror.InternalServerError
	}

	dispatchScoreChanges(s.Events, changes)
	return toRateResponse(rate), nil
}

func (s *RateService) UpdateRate(id int, req *contract.RateRequest) apierror.ErrorResponse {
	if req.ID != id {
		return apierror.IDMismatchError
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	current, err := s.RateRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch rate %d: %v", id, err)
		return apierror.InternalServerError
	}

	if current == nil {
		return apierror.NotFoundError
	}

	if apierr := s.checkReferences(req.CompanyID, req.UserID); apierr != nil {
		return apierr
	}

	if current.UserID != req.UserID || current.CompanyID != req.CompanyID {
		other, err := s.RateRepo.FindByPair(req.UserID, req.CompanyID)
		if err != nil {
			log.Errorf("failed to check existing rate: %v", err)
			return apierror.InternalServerError
		}

		if other != nil && other.ID != id {
			return apierror.DuplicateRatingError
		}
	}

	rate := &entity.Rate{
		ID:        id,
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		Score:     req.Score,
		CreatedAt: current.CreatedAt,
		UpdatedAt: utils.NowUTC(),
	}

	changes, err := s.RateRepo.Update(rate, current.CompanyID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// Deleted between the lookup and the write
		return apierror.NotFoundError
	case errors.Is(err, repository.ErrDuplicate):
		return apierror.DuplicateRatingError
	case err != nil:
		log.Errorf("failed to update rate %d: %v", id, err)
		return apierror.InternalServerError
	}

	dispatchScoreChanges(s.Events, changes)
	return nil
}

func (s *RateService) DeleteRate(id int) apierror.ErrorResponse {
	rate, err := s.RateRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch rate %d: %v", id, err)
		return apierror.InternalServerError
	}

	if rate == nil {
		return apierror.NotFoundError
	}

	changes, err := s.RateRepo.Delete(rate)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to delete rate %d: %v", id, err)
		return apierror.InternalServerError
	}

	dispatchScoreChanges(s.Events, changes)
	return nil
}

// ReconcileScores recomputes every company score and broadcasts the ones
// that changed. It returns how many had drifted.
func (s *RateService) ReconcileScores() (int, error) {
	changes, err := s.RateRepo.Reconcile()
	if err != nil {
		return 0, err
	}

	dispatchScoreChanges(s.Events, changes)
	return len(changes), nil
}

func (s *RateService) checkReferences(companyID int, userID string) apierror.ErrorResponse {
	companyExists, err := s.CompanyRepo.ExistsByID(companyID)
	if err != nil {
		log.Errorf("failed to check company %d: %v", companyID, err)
		return apierror.InternalServerError
	}

	if !companyExists {
		return apierror.CompanyNotExistError
	}

	userExists, err := s.UserRepo.ExistsByID(userID)
	if err != nil {
		log.Errorf("failed to check user %s: %v", userID, err)
		return apierror.InternalServerError
	}

	if !userExists {
		return apierror.UserNotExistError
	}
	return nil
}

// respond resolves the user and company names of the rates.
func (s *RateService) respond(rates []*entity.Rate) ([]*contract.RateResponse, apierror.ErrorResponse) {
	companyIDs := make([]int, 0, len(rates))
	userIDs := make([]string, 0, len(rates))
	for _, r := range rates {
		companyIDs = append(companyIDs, r.CompanyID)
		userIDs = append(userIDs, r.UserID)
	}

	companies, err := s.CompanyRepo.FindAllInIDs(companyIDs)
	if err != nil {
		log.Errorf("failed to fetch rated companies: %v", err)
		return nil, apierror.InternalServerError
	}

	users, err := s.UserRepo.FindAllInIDs(userIDs)
	if err != nil {
		log.Errorf("failed to fetch rating users: %v", err)
		return nil, apierror.InternalServerError
	}

	companyNames := make(map[int]string, len(companies))
	for _, c := range companies {
		companyNames[c.ID] = c.Name
	}

	userNames := make(map[string]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Username
	}

	resp := make([]*contract.RateResponse, len(rates))
	for i, r := range rates {
		resp[i] = toRateResponse(r)
		resp[i].CompanyName = companyNames[r.CompanyID]
		resp[i].UserName = userNames[r.UserID]
	}
	return resp, nil
}
