package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SearchService interface {
	SearchCompanies(q *contract.SearchCompaniesQuery) ([]*contract.CompanyResponse, apierror.ErrorResponse)
	GetNearbyCompanies(q *contract.NearbyQuery) ([]*contract.NearbyCompanyResponse, apierror.ErrorResponse)
}

type DefaultSearchRoute struct {
	SearchService SearchService
}

func NewSearchDefault(searchService SearchService) *DefaultSearchRoute {
	return &DefaultSearchRoute{SearchService: searchService}
}

func (h *DefaultSearchRoute) SearchCompanies(c echo.Context) error {
	isProvider, apierr := optionalBool(c, "isProvider")
	if apierr != nil {
		return writeError(c, apierr)
	}

	isRetail, apierr := optionalBool(c, "isRetail")
	if apierr != nil {
		return writeError(c, apierr)
	}

	minScore, apierr := optionalFloat(c, "minScore")
	if apierr != nil {
		return writeError(c, apierr)
	}

	q := &contract.SearchCompaniesQuery{
		Query:      c.QueryParam("query"),
		IsProvider: isProvider,
		IsRetail:   isRetail,
		MinScore:   minScore,
		Tags:       c.QueryParam("tags"),
	}

	companies, apierr := h.SearchService.SearchCompanies(q)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, companies)
}

func (h *DefaultSearchRoute) GetNearbyCompanies(c echo.Context) error {
	lat, apierr := requiredFloat(c, "lat")
	if apierr != nil {
		return writeError(c, apierr)
	}

	lng, apierr := requiredFloat(c, "lng")
	if apierr != nil {
		return writeError(c, apierr)
	}

	distance, apierr := optionalFloat(c, "distance")
	if apierr != nil {
		return writeError(c, apierr)
	}

	isProvider, apierr := optionalBool(c, "isProvider")
	if apierr != nil {
		return writeError(c, apierr)
	}

	q := &contract.NearbyQuery{
		Lat:        lat,
		Lng:        lng,
		DistanceKm: contract.DefaultNearbyDistanceKm,
		IsProvider: isProvider,
	}
	if distance != nil {
		q.DistanceKm = *distance
	}

	companies, apierr := h.SearchService.GetNearbyCompanies(q)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, companies)
}

func optionalBool(c echo.Context, name string) (*bool, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError(name, "bool")
	}
	return &val, nil
}

func optionalFloat(c echo.Context, name string) (*float64, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return nil, apierror.NewInvalidParamTypeError(name, "number")
	}
	return &val, nil
}

func requiredFloat(c echo.Context, name string) (float64, apierror.ErrorResponse) {
	val, apierr := optionalFloat(c, name)
	if apierr != nil {
		return 0, apierr
	}

	if val == nil {
		return 0, apierror.NewMissingParamError(name)
	}
	return *val, nil
}
