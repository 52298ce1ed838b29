package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type mapUserRepo map[string]*entity.User

func (m mapUserRepo) FindByID(id string) (*entity.User, error) {
	return m[id], nil
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *entity.User) {
	t.Helper()
	var seen *entity.User
	h := mw(func(c echo.Context) error {
		seen = utils.OptionalUserFromContext(c)
		return c.NoContent(http.StatusNoContent)
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec, seen
}

func newTestMiddleware(optional bool) echo.MiddlewareFunc {
	verifier := utils.NewTokenVerifier(func(*jwt.Token) (any, error) {
		return testSecret, nil
	})
	return NewAuthMiddleware(&AuthMiddlewareConfig{
		Verifier: verifier,
		UserRepo: mapUserRepo{"sub-1": {ID: "sub-1"}},
		Optional: optional,
	})
}

func TestAuthMiddlewareRequired(t *testing.T) {
	mw := newTestMiddleware(false)

	rec, _ := serve(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, mw, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, mw, "Bearer "+signToken(t, "unknown"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, user := serve(t, mw, "Bearer "+signToken(t, "sub-1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "sub-1", user.ID)
}

func TestAuthMiddlewareOptional(t *testing.T) {
	mw := newTestMiddleware(true)

	rec, user := serve(t, mw, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, user)

	rec, _ = serve(t, mw, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
