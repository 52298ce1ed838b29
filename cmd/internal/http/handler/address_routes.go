package handler

import (
	"net/http"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AddressService interface {
	GetAddresses() ([]*contract.AddressResponse, apierror.ErrorResponse)
	GetAddress(id int) (*contract.AddressResponse, apierror.ErrorResponse)
	CreateAddress(req *contract.AddressRequest) (*contract.AddressResponse, apierror.ErrorResponse)
	UpdateAddress(id int, req *contract.AddressRequest) apierror.ErrorResponse
	DeleteAddress(id int) apierror.ErrorResponse
}

type DefaultAddressRoute struct {
	AddressService AddressService
}

func NewAddressDefault(addressService AddressService) *DefaultAddressRoute {
	return &DefaultAddressRoute{AddressService: addressService}
}

func (h *DefaultAddressRoute) GetAddresses(c echo.Context) error {
	addresses, apierr := h.AddressService.GetAddresses()
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *DefaultAddressRoute) GetAddress(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	address, apierr := h.AddressService.GetAddress(id)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return c.JSON(http.StatusOK, address)
}

func (h *DefaultAddressRoute) CreateAddress(c echo.Context) error {
	var req contract.AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	address, apierr := h.AddressService.CreateAddress(&req)
	if apierr != nil {
		return writeError(c, apierr)
	}
	return created(c, locationOf(c, "/api/Addresses/%d", address.ID), address)
}

func (h *DefaultAddressRoute) UpdateAddress(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	var req contract.AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr = h.AddressService.UpdateAddress(id, &req); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultAddressRoute) DeleteAddress(c echo.Context) error {
	id, apierr := parseIntParam(c, "id")
	if apierr != nil {
		return writeError(c, apierr)
	}

	if apierr = h.AddressService.DeleteAddress(id); apierr != nil {
		return writeError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
