package utils

import (
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	ContextKeyUser  = "user"
	ContextKeySub   = "sub"
	ContextKeyToken = "token"
)

func GetUserFromContext(c echo.Context) (*entity.User, apierror.ErrorResponse) {
	val := c.Get(ContextKeyUser)
	if val == nil {
		log.Warnf("route %s attempted to read nil user from context", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}

	user, ok := val.(*entity.User)
	if !ok {
		log.Warnf("expected user type at 'user' context key, got %T", val)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

// OptionalUserFromContext returns nil when the route is not authenticated.
func OptionalUserFromContext(c echo.Context) *entity.User {
	user, _ := c.Get(ContextKeyUser).(*entity.User)
	return user
}

func GetTokenFromContext(c echo.Context) (*TokenData, apierror.ErrorResponse) {
	token, ok := c.Get(ContextKeyToken).(*TokenData)
	if !ok || token == nil {
		return nil, apierror.InvalidAuthTokenError
	}
	return token, nil
}
