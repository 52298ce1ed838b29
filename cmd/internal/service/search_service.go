package service

import (
	"sort"
	"strings"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/geo"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
	"bizdirectory/cmd/internal/infrastructure/aws/storage"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type SearchService struct {
	CompanyRepo CompanyRepository
	AddressRepo AddressRepository
	Validate    *validator.Validate

	loader *companyLoader
}

func NewSearchService(
	companyRepo CompanyRepository,
	addressRepo AddressRepository,
	rateRepo RateRepository,
	s3 storage.S3Client,
	validate *validator.Validate,
) *SearchService {
	return &SearchService{
		CompanyRepo: companyRepo,
		AddressRepo: addressRepo,
		Validate:    validate,
		loader: &companyLoader{
			addressRepo: addressRepo,
			rateRepo:    rateRepo,
			storage:     s3,
		},
	}
}

// SearchCompanies returns the companies matching every given filter,
// ordered by id.
func (s *SearchService) SearchCompanies(q *contract.SearchCompaniesQuery) ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	companies, err := s.CompanyRepo.Search(&repository.CompanyFilter{
		Query:      q.Query,
		IsProvider: q.IsProvider,
		IsRetail:   q.IsRetail,
		MinScore:   q.MinScore,
	})
	if err != nil {
		log.Errorf("failed to search companies: %v", err)
		return nil, apierror.InternalServerError
	}

	companies = FilterByTags(companies, ParseTags(q.Tags))

	resp, err := s.loader.load(companies, true)
	if err != nil {
		log.Errorf("failed to load company relations: %v", err)
		return nil, apierror.InternalServerError
	}
	return resp, nil
}

// GetNearbyCompanies returns the companies whose address lies within
// DistanceKm of the point, nearest first. Companies without an address
// never match.
func (s *SearchService) GetNearbyCompanies(q *contract.NearbyQuery) ([]*contract.NearbyCompanyResponse, apierror.ErrorResponse) {
	if err := s.Validate.Struct(q); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	companies, err := s.CompanyRepo.Search(&repository.CompanyFilter{IsProvider: q.IsProvider})
	if err != nil {
		log.Errorf("failed to fetch companies: %v", err)
		return nil, apierror.InternalServerError
	}

	ids := make([]int, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}

	addresses, err := s.AddressRepo.FindAllInCompanyIDs(ids)
	if err != nil {
		log.Errorf("failed to fetch addresses: %v", err)
		return nil, apierror.InternalServerError
	}

	byCompany := make(map[int]*entity.Address, len(addresses))
	for _, a := range addresses {
		byCompany[a.CompanyID] = a
	}

	resp := make([]*contract.NearbyCompanyResponse, 0)
	for _, c := range companies {
		address, ok := byCompany[c.ID]
		if !ok {
			continue
		}

		distance := geo.Haversine(q.Lat, q.Lng, address.Lat, address.Lng)
		if distance > q.DistanceKm {
			continue
		}

		company := s.loader.toResponse(c, address)
		company.Rates = []*contract.RateResponse{}
		resp = append(resp, &contract.NearbyCompanyResponse{
			CompanyResponse: company,
			Distance:        distance,
		})
	}

	sort.SliceStable(resp, func(i, j int) bool {
		return resp[i].Distance < resp[j].Distance
	})
	return resp, nil
}

// ParseTags splits a comma separated tag list. Tags are trimmed and
// lowercased, empty ones are dropped.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FilterByTags keeps the companies whose tag string contains any of the
// tags as a case-insensitive substring. No tags keeps every company.
func FilterByTags(companies []*entity.Company, tags []string) []*entity.Company {
	if len(tags) == 0 {
		return companies
	}

	kept := make([]*entity.Company, 0, len(companies))
	for _, c := range companies {
		own := strings.ToLower(c.Tags)
		for _, tag := range tags {
			if strings.Contains(own, tag) {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}
