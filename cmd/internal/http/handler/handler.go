package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// writeError answers a plain not-found with an empty body, anything else
// with its JSON representation.
func writeError(c echo.Context, apierr apierror.ErrorResponse) error {
	if apierr == apierror.NotFoundError {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(apierr.Code(), apierr)
}

func parseIntParam(c echo.Context, name string) (int, apierror.ErrorResponse) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "int")
	}
	return id, nil
}

// created answers 201 with the Location of the new resource.
func created(c echo.Context, location string, body any) error {
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.JSON(http.StatusCreated, body)
}

func locationOf(c echo.Context, format string, args ...any) string {
	return c.Scheme() + "://" + c.Request().Host + fmt.Sprintf(format, args...)
}
