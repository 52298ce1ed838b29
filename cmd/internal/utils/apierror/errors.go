package apierror

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"net/http"
	"strings"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

func (s *StructuredError) Empty() bool {
	return len(s.Errors) == 0
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")
	ServiceUnavailable  = NewSimple(503, "This feature is not available right now")

	// NotFoundError is answered with an empty body.
	NotFoundError   = NewSimple(404, "Resource not found")
	InvalidIDError  = NewSimple(400, "The provided ID is invalid, IDs are usually int32 > 0")
	IDMismatchError = NewSimple(400, "The ID in the path does not match the ID in the body")

	UnauthorizedError     = NewSimple(401, "Authentication is required")
	InvalidAuthTokenError = NewSimple(401, "Invalid or expired token")
	NotAccountOwnerError  = NewSimple(403, "You can only modify your own account")

	/*
	 * Directory rules
	 */
	CompanyNotExistError      = NewSimple(400, "The specified company does not exist")
	UserNotExistError         = NewSimple(400, "The specified user does not exist")
	DuplicateRatingError      = NewSimple(400, "This user has already rated this company. Use PUT to update the rating.")
	CompanyNotFoundMsgError   = NewSimple(404, "Company not found")
	UserNotFoundMsgError      = NewSimple(404, "User not found")
	ProviderNotFoundError     = NewSimple(404, "Provider not found")
	NotAProviderMarkedError   = NewSimple(400, "The specified provider is not marked as a provider")
	AlreadyAssociatedError    = NewSimple(400, "This provider is already associated with the company")
	ProviderLinkNotFoundError = NewSimple(404, "The provider relationship was not found")
	NotAProviderError         = NewSimple(400, "The specified company is not a provider")
	CompanyHasLinksError      = NewSimple(400, "The company is still linked to providers or clients, remove those links first")
	CompanyHasAddressError    = NewSimple(400, "The specified company already has an address")

	/*
	 * Logo uploads
	 */
	MissingFileError    = NewSimple(400, "A file must be provided in the 'logo' field")
	InvalidFileExtError = NewSimple(400, "Unsupported file type, allowed: png, jpg, jpeg, webp")
	FileTooLargeError   = NewSimple(400, "File is too large, max size is 5 MiB")

	/*
	 * Used for authentications
	 */
	IDPInvalidPasswordError     = NewSimple(400, "Provided password does not meet requirements")
	IDPExistingEmailError       = NewSimple(400, "Email already exists")
	IDPUserNotFoundError        = NewSimple(404, "User not found")
	IDPUserNotConfirmedError    = NewSimple(400, "User is not confirmed yet")
	IDPCredentialsMismatchError = NewSimple(400, "Credentials mismatch")
	IDPInvalidParameterError    = NewSimple(400, "Invalid parameters provided")
	IDPLimitExceededError       = NewSimple(429, "Too many attempts, try again later")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := lowerFirst(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "gte":
			problems[field] = append(problems[field], "Value must be at least "+fe.Param())
		case "lte":
			problems[field] = append(problems[field], "Value must be at most "+fe.Param())
		case "gt":
			problems[field] = append(problems[field], "Value must be greater than "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain spaces")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "latitude":
			problems[field] = append(problems[field], "Value must be a valid latitude")
		case "longitude":
			problems[field] = append(problems[field], "Value must be a valid longitude")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

// lowerFirst matches the camelCase JSON names of the request fields.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s == strings.ToUpper(s) {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewIdentityError keeps the status of base and reports the detail the
// identity provider gave, grouped under "identity".
func NewIdentityError(base *APIError, detail string) ErrorResponse {
	if detail == "" {
		return base
	}

	se := NewStructured(base.Status)
	se.Add("identity", base.Message)
	se.Add("identity", detail)
	return se
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' is required", name)
}
