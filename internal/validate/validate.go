// Package validate holds the shared input validator with English error messages.
package validate

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"study-planner/internal/model"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	statusTag   = "status"
	isoDateTag  = "isodate"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(notBlankTag, "this field cannot be blank")

	_ = Validate.RegisterValidation(statusTag, statusValidation)
	RegisterCustomTranslation(statusTag, "must be one of planned, done, partial, missed")

	_ = Validate.RegisterValidation(isoDateTag, isoDateValidation)
	RegisterCustomTranslation(isoDateTag, "must be a date formatted as YYYY-MM-DD")
}

// RegisterCustomTranslation registers the error message of a custom tag.
// The default translations are already registered, so a noop register func is passed.
func RegisterCustomTranslation(tag, text string) {
	registerFn := func(ut.Translator) error { return nil }
	translateFn := func(ut.Translator, validator.FieldError) string { return text }
	_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateFn)
}

// Struct validates v and turns validator errors into a *model.ValidationError with translated fields.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}
	return &model.ValidationError{
		Err:    errors.New("invalid input"),
		Fields: Fields(verrs),
	}
}

// Fields translates validator errors into field errors keyed by their JSON name.
func Fields(verrs validator.ValidationErrors) []model.FieldError {
	flds := make([]model.FieldError, 0, len(verrs))
	for _, vErr := range verrs {
		field := vErr.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		flds = append(flds, model.FieldError{Field: field, Error: vErr.Translate(Translator)})
	}
	return flds
}

// ParseDate parses an ISO date (YYYY-MM-DD) at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", s)
	}
	return t, nil
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func statusValidation(fl validator.FieldLevel) bool {
	return model.Status(fl.Field().String()).Loggable()
}

func isoDateValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}
