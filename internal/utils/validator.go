package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool

	policy *bluemonday.Policy
}

var (
	instance      *Validator
	configuration *truemail.Configuration
	once          sync.Once
)

// timeOfDayRegex accepts 24h clock values like "9:05" or "21:30".
var timeOfDayRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)

// severityBands lists the severity labels shared by both questionnaires.
var severityBands = map[string]struct{}{
	"minimal":           {},
	"mild":              {},
	"moderate":          {},
	"moderately severe": {},
	"severe":            {},
}

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@mail.mindwell.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

func validateEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("username_validation", usernameValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("time_format", timeFormatValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("severity_validation", severityValidation)
	if err != nil {
		return
	}
}

// usernameValidation allows a-z, A-Z, 0-9, ., - and _.
func usernameValidation(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// timeFormatValidation checks reminder times against the 24h clock.
func timeFormatValidation(fl validator.FieldLevel) bool {
	return timeOfDayRegex.MatchString(fl.Field().String())
}

// severityValidation checks that the label is one of the known bands,
// ignoring case.
func severityValidation(fl validator.FieldLevel) bool {
	_, ok := severityBands[strings.ToLower(fl.Field().String())]
	return ok
}

// SanitizeData strips markup from every string field of the given struct
// pointer, including nested structs, string pointers and slices.
func (v *Validator) SanitizeData(data interface{}) error {
	value := reflect.ValueOf(data)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return errors.New("sanitization requires a non-nil pointer")
	}

	v.sanitizeValue(value.Elem())
	return nil
}

func (v *Validator) sanitizeValue(value reflect.Value) {
	switch value.Kind() {
	case reflect.String:
		if value.CanSet() {
			value.SetString(v.policy.Sanitize(value.String()))
		}
	case reflect.Ptr:
		if !value.IsNil() {
			v.sanitizeValue(value.Elem())
		}
	case reflect.Struct:
		for i := 0; i < value.NumField(); i++ {
			v.sanitizeValue(value.Field(i))
		}
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			v.sanitizeValue(value.Index(i))
		}
	}
}
