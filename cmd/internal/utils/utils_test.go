package utils

import (
	"net/http"
	"testing"

	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sanitizeTarget struct {
	Name  string
	Mail  *string
	Tags  []string
	Count int
}

func TestSanitize(t *testing.T) {
	mail := "  a@b.com "
	target := &sanitizeTarget{Name: "  Acme\t", Mail: &mail, Tags: []string{" x ", "y"}, Count: 3}

	Sanitize(target)

	assert.Equal(t, "Acme", target.Name)
	assert.Equal(t, "a@b.com", *target.Mail)
	assert.Equal(t, []string{"x", "y"}, target.Tags)
	assert.Equal(t, 3, target.Count)
}

func TestSanitizePanicsOnNonPointer(t *testing.T) {
	assert.Panics(t, func() { Sanitize(sanitizeTarget{}) })
}

func TestCheckFileExt(t *testing.T) {
	valid := []string{"png", "jpg"}

	ext, ok := CheckFileExt("logo.PNG", valid)
	assert.True(t, ok)
	assert.Equal(t, ".PNG", ext)

	_, ok = CheckFileExt("logo.gif", valid)
	assert.False(t, ok)

	_, ok = CheckFileExt("logo", valid)
	assert.False(t, ok)
}

func TestMapCognitoError(t *testing.T) {
	msg := "Password must have symbols"
	resp := MapCognitoError(&types.InvalidPasswordException{Message: &msg})
	se, ok := resp.(*apierror.StructuredError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, se.Code())
	assert.Contains(t, se.Errors["identity"], msg)

	assert.Equal(t, apierror.IDPExistingEmailError, MapCognitoError(&types.UsernameExistsException{}))
	assert.Equal(t, apierror.IDPCredentialsMismatchError, MapCognitoError(&types.NotAuthorizedException{}))
	assert.Equal(t, apierror.InternalServerError, MapCognitoError(assert.AnError))
}

func TestFormatEpoch(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:01Z", FormatEpoch(1000))
}
