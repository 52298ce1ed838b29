package service

import (
	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/infrastructure/aws/storage"
	"bizdirectory/cmd/internal/utils"
)

// companyLoader resolves the address and rates of companies with one query
// per relation, whatever the number of companies.
type companyLoader struct {
	addressRepo AddressRepository
	rateRepo    RateRepository
	storage     storage.S3Client
}

func (l *companyLoader) load(companies []*entity.Company, withRates bool) ([]*contract.CompanyResponse, error) {
	ids := make([]int, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}

	addresses, err := l.addressRepo.FindAllInCompanyIDs(ids)
	if err != nil {
		return nil, err
	}

	byCompany := make(map[int]*entity.Address, len(addresses))
	for _, a := range addresses {
		byCompany[a.CompanyID] = a
	}

	ratesByCompany := map[int][]*contract.RateResponse{}
	if withRates {
		rates, err := l.rateRepo.FindAllInCompanyIDs(ids)
		if err != nil {
			return nil, err
		}

		for _, r := range rates {
			ratesByCompany[r.CompanyID] = append(ratesByCompany[r.CompanyID], toRateResponse(r))
		}
	}

	resp := make([]*contract.CompanyResponse, len(companies))
	for i, c := range companies {
		resp[i] = l.toResponse(c, byCompany[c.ID])
		resp[i].Rates = ratesOrEmpty(ratesByCompany[c.ID])
	}
	return resp, nil
}

func (l *companyLoader) loadOne(company *entity.Company, withRates bool) (*contract.CompanyResponse, error) {
	resp, err := l.load([]*entity.Company{company}, withRates)
	if err != nil {
		return nil, err
	}
	return resp[0], nil
}

func (l *companyLoader) toResponse(c *entity.Company, address *entity.Address) *contract.CompanyResponse {
	resp := &contract.CompanyResponse{
		ID:         c.ID,
		NIF:        c.NIF,
		Name:       c.Name,
		Mail:       c.Mail,
		Phone:      c.Phone,
		Tags:       c.Tags,
		Score:      c.Score,
		IsProvider: c.IsProvider,
		IsRetail:   c.IsRetail,
		Address:    toAddressResponse(address),
		CreatedAt:  utils.FormatEpoch(c.CreatedAt),
		UpdatedAt:  utils.FormatEpoch(c.UpdatedAt),
	}

	if l.storage != nil && c.LogoKey != "" {
		resp.LogoURL = l.storage.URL(c.LogoKey)
	}
	return resp
}

func toCompanyBrief(c *entity.Company) *contract.CompanyBrief {
	return &contract.CompanyBrief{
		ID:         c.ID,
		NIF:        c.NIF,
		Name:       c.Name,
		Score:      c.Score,
		IsProvider: c.IsProvider,
		IsRetail:   c.IsRetail,
	}
}

func toCompanyBriefs(companies []*entity.Company) []*contract.CompanyBrief {
	resp := make([]*contract.CompanyBrief, len(companies))
	for i, c := range companies {
		resp[i] = toCompanyBrief(c)
	}
	return resp
}

func toAddressResponse(a *entity.Address) *contract.AddressResponse {
	if a == nil {
		return nil
	}

	return &contract.AddressResponse{
		ID:        a.ID,
		Location:  a.Location,
		Lat:       a.Lat,
		Lng:       a.Lng,
		CompanyID: a.CompanyID,
	}
}

func toRateResponse(r *entity.Rate) *contract.RateResponse {
	return &contract.RateResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		CompanyID: r.CompanyID,
		Score:     r.Score,
		CreatedAt: utils.FormatEpoch(r.CreatedAt),
		UpdatedAt: utils.FormatEpoch(r.UpdatedAt),
	}
}

func toRateResponses(rates []*entity.Rate) []*contract.RateResponse {
	resp := make([]*contract.RateResponse, len(rates))
	for i, r := range rates {
		resp[i] = toRateResponse(r)
	}
	return resp
}

func ratesOrEmpty(rates []*contract.RateResponse) []*contract.RateResponse {
	if rates == nil {
		return []*contract.RateResponse{}
	}
	return rates
}

func toUserResponse(u *entity.User, rates []*entity.Rate) *contract.UserResponse {
	return &contract.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		PhoneNumber: u.PhoneNumber,
		Rates:       toRateResponses(rates),
		CreatedAt:   utils.FormatEpoch(u.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(u.UpdatedAt),
	}
}
