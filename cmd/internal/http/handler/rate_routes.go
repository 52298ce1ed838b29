package handler

import (
	"net/http"
	"strings"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type RateService interface {
	GetRates() ([]*contract.RateResponse, apierror.ErrorResponse)
	GetRate(id int) (*contract.RateResponse, apierror.ErrorResponse)
	GetRatesByCompany(companyID int) ([]*contract.RateResponse, apierror.ErrorResponse)
	GetRatesByUser(userID string) ([]*contract.RateResponse, apierror.ErrorResponse)
	CreateRate(req *contract.RateRequest) (*contract.RateResponse, apierror.ErrorResponse)
	UpdateRate(id int, req *contract.RateRequest) apierror.ErrorResponse
	DeleteRate(id int) apierror.ErrorResponse
}

type DefaultRateRoute struct {
	RateService RateService
}

func NewRateDefault(rateService RateService) *DefaultRateRoute {
	return &DefaultRateRoute{RateService: rateService}
}

func (h *DefaultRateRoute) GetRates(c echo.Context) error {
	rates, apierr := h.RateService.GetRates()
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, rates)
}

func (h *DefaultRateRoute) GetRate(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	rate, apierr := h.RateService.GetRate(id)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, rate)
}

func (h *DefaultRateRoute) GetRatesByCompany(c echo.Context) error {
	companyID, apierr := parseIntParam(c, "companyId")
	if apierr != nil {
		return writeError(c, apierr)
	}

	rates, apierr := h.RateService.GetRatesByCompany(companyID)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, rates)
}

func (h *DefaultRateRoute) GetRatesByUser(c echo.Context) error {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("userId"))
	}

	rates, apierr := h.RateService.GetRatesByUser(userID)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, rates)
}

func (h *DefaultRateRoute) CreateRate(c echo.Context) error {
	var req contract.RateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	rate, apierr := h.RateService.CreateRate(&req)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return created(c, locationOf(c, "/api/Rates/%d", rate.ID), rate)
}

func (h *DefaultRateRoute) UpdateRate(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	var req contract.RateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr = h.RateService.UpdateRate(id, &req); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultRateRoute) DeleteRate(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	if apierr = h.RateService.DeleteRate(id); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
