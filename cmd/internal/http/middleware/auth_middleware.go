package middleware

import (
	"net/http"

	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	Verifier *utils.TokenVerifier
	UserRepo UserRepository

	// Optional lets requests without an Authorization header through
	// anonymously. A header that is present is still verified.
	Optional bool
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if cfg.Optional && (header == "" || cfg.Verifier == nil) {
				return next(c)
			}

			if header == "" {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			tokenData, err := cfg.Verifier.ParseTokenDataCtx(c)
			if err != nil {
				log.Debugf("rejected bearer token: %v", err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByID(tokenData.Sub)
			if err != nil {
				log.Errorf("failed to load user %s for token: %v", tokenData.Sub, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// Registered at the identity provider but deleted locally
				return c.JSON(http.StatusUnauthorized, apierror.UserNotExistError)
			}

			c.Set(utils.ContextKeyUser, user)
			c.Set(utils.ContextKeySub, tokenData.Sub)
			c.Set(utils.ContextKeyToken, tokenData)
			return next(c)
		}
	}
}
