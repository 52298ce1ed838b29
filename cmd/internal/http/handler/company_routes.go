package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CompanyService interface {
	GetCompanies() ([]*contract.CompanyResponse, apierror.ErrorResponse)
	GetCompany(id int) (*contract.CompanyResponse, apierror.ErrorResponse)
	GetProviders() ([]*contract.CompanyResponse, apierror.ErrorResponse)
	GetCompanyProviders(id int) ([]*contract.CompanyResponse, apierror.ErrorResponse)
	GetProviderClients(id int) ([]*contract.CompanyResponse, apierror.ErrorResponse)
	GetCompanyRatings(id int) ([]*contract.RateResponse, apierror.ErrorResponse)
	CreateCompany(req *contract.CompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse)
	UpdateCompany(id int, req *contract.CompanyRequest) apierror.ErrorResponse
	DeleteCompany(ctx context.Context, id int) apierror.ErrorResponse
	AddProvider(companyID, providerID int) apierror.ErrorResponse
	RemoveProvider(companyID, providerID int) apierror.ErrorResponse
	UploadLogo(ctx context.Context, id int, fileHeader *multipart.FileHeader) (*contract.CompanyResponse, apierror.ErrorResponse)
}

type DefaultCompanyRoute struct {
	CompanyService CompanyService
}

func NewCompanyDefault(companyService CompanyService) *DefaultCompanyRoute {
	return &DefaultCompanyRoute{CompanyService: companyService}
}

func (h *DefaultCompanyRoute) GetCompanies(c echo.Context) error {
	companies, apierr := h.CompanyService.GetCompanies()
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, companies)
}

func (h *DefaultCompanyRoute) GetCompany(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	company, apierr := h.CompanyService.GetCompany(id)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *DefaultCompanyRoute) GetProviders(c echo.Context) error {
	providers, apierr := h.CompanyService.GetProviders()
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, providers)
}

func (h *DefaultCompanyRoute) GetCompanyProviders(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	providers, apierr := h.CompanyService.GetCompanyProviders(id)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, providers)
}

func (h *DefaultCompanyRoute) GetProviderClients(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	clients, apierr := h.CompanyService.GetProviderClients(id)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *DefaultCompanyRoute) GetCompanyRatings(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	rates, apierr := h.CompanyService.GetCompanyRatings(id)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, rates)
}

func (h *DefaultCompanyRoute) CreateCompany(c echo.Context) error {
	var req contract.CompanyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	company, apierr := h.CompanyService.CreateCompany(&req)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return created(c, locationOf(c, "/api/Companies/%d", company.ID), company)
}

func (h *DefaultCompanyRoute) UpdateCompany(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	var req contract.CompanyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr = h.CompanyService.UpdateCompany(id, &req); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCompanyRoute) DeleteCompany(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	if apierr = h.CompanyService.DeleteCompany(c.Request().Context(), id); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCompanyRoute) AddProvider(c echo.Context) error {
	companyID, providerID, apierr := parseLinkParams(c)
	if apierr != nil {
		return writeError(c, apierr)
	}

	if apierr = h.CompanyService.AddProvider(companyID, providerID); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCompanyRoute) RemoveProvider(c echo.Context) error {
	companyID, providerID, apierr := parseLinkParams(c)
	if apierr != nil {
		return writeError(c, apierr)
	}

	if apierr = h.CompanyService.RemoveProvider(companyID, providerID); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCompanyRoute) UploadLogo(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingFileError)
	}

	company, apierr := h.CompanyService.UploadLogo(c.Request().Context(), id, fileHeader)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func parseLinkParams(c echo.Context) (int, int, apierror.ErrorResponse) {
	companyID, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return 0, 0, apierr
	}

	providerID, apierr := parseIntParam(c, "providerId")
	if apierr != nil {
		return 0, 0, apierr
	}
	return companyID, providerID, nil
}
