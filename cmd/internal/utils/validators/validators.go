package validators

import (
	"github.com/go-playground/validator/v10"
	"reflect"
	"regexp"
	"unicode"
)

var (
	specialRegex = regexp.MustCompile(`[\\^$*.\[\]{}()?"!@#%&/\\,><':;|_~` + "`" + `=+\-]`)
	hasSpaces    = regexp.MustCompile(`\s+`)
)

// New returns a validator with every custom tag used by the request contracts.
func New() *validator.Validate {
	v := validator.New()
	register(v, "nospaces", NoWhiteSpaces)
	register(v, "hasupper", HasUpper)
	register(v, "haslower", HasLower)
	register(v, "hasdigit", HasDigit)
	register(v, "hasspecial", HasSpecial)
	return v
}

func register(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validators: could not register " + tag + ": " + err.Error())
	}
}

func HasUpper(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	for _, ch := range val {
		if unicode.IsUpper(ch) {
			return true
		}
	}
	return false
}

func HasLower(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	for _, ch := range val {
		if unicode.IsLower(ch) {
			return true
		}
	}
	return false
}

func HasDigit(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	for _, ch := range val {
		if unicode.IsDigit(ch) {
			return true
		}
	}
	return false
}

func HasSpecial(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return specialRegex.MatchString(val)
}

// NoWhiteSpaces returns false if the string contains any whitespace (rejecting the user input).
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	str := field.String()
	return !hasSpaces.MatchString(str)
}
