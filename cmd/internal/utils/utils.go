package utils

import (
	"bizdirectory/cmd/internal/utils/apierror"
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/labstack/gommon/log"
)

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

func CheckFileExt(fileName string, valid []string) (string, bool) {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return "", false
	}
	return ext, slices.Contains(valid, strings.ToLower(ext[1:]))
}

// MapCognitoError turns an identity provider failure into the 400 body the
// caller gets back. The provider message is kept, it describes what to fix.
func MapCognitoError(err error) apierror.ErrorResponse {
	var (
		invalidPwd    *types.InvalidPasswordException
		userExists    *types.UsernameExistsException
		userNotFound  *types.UserNotFoundException
		notConfirmed  *types.UserNotConfirmedException
		notAuthorized *types.NotAuthorizedException
		invalidParam  *types.InvalidParameterException
		aliasExists   *types.AliasExistsException
		limitExceeded *types.LimitExceededException
	)

	switch {
	case errors.As(err, &invalidPwd):
		return apierror.NewIdentityError(apierror.IDPInvalidPasswordError, invalidPwd.ErrorMessage())
	case errors.As(err, &userExists):
		return apierror.IDPExistingEmailError
	case errors.As(err, &aliasExists):
		return apierror.IDPExistingEmailError
	case errors.As(err, &userNotFound):
		return apierror.IDPUserNotFoundError
	case errors.As(err, &notConfirmed):
		return apierror.IDPUserNotConfirmedError
	case errors.As(err, &notAuthorized):
		return apierror.IDPCredentialsMismatchError
	case errors.As(err, &invalidParam):
		return apierror.NewIdentityError(apierror.IDPInvalidParameterError, invalidParam.ErrorMessage())
	case errors.As(err, &limitExceeded):
		return apierror.IDPLimitExceededError
	default:
		// Log the original underlying error for debugging purposes
		log.Errorf("unmapped cognito error: %v", err)
		return apierror.InternalServerError
	}
}

// Sanitize trims every string (and string slice element) of the given struct.
func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String {
				field.Elem().SetString(sanitizeString(field.Elem().String()))
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
