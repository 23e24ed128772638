package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"foodgram-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// NewHTTPHelper sets up validator.v9 with English messages, json field names
// and the username and slug rules used by the request models.
func NewHTTPHelper() (*HTTPHelper, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	rules := []struct {
		tag     string
		message string
		fn      validator.Func
	}{
		{
			tag:     "username",
			message: "{0} may contain only letters, digits and @/./+/-/_ and must not be \"me\"",
			fn: func(fl validator.FieldLevel) bool {
				value := fl.Field().String()
				return usernamePattern.MatchString(value) && !strings.EqualFold(value, "me")
			},
		},
		{
			tag:     "slug",
			message: "{0} may contain only latin letters, digits, hyphens and underscores",
			fn: func(fl validator.FieldLevel) bool {
				return slugPattern.MatchString(fl.Field().String())
			},
		},
	}
	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validation: %w", rule.tag, err)
		}
		tag, message := rule.tag, rule.message
		err := validate.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, message, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field())
				return msg
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return &HTTPHelper{Validate: validate, Translator: trans}, nil
}

// Bind decodes the JSON body into req and validates it. Failures come back as
// models.ErrorValidation keyed by the top-level json field.
func (u *HTTPHelper) Bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return decodeError(err)
	}
	return u.ValidateStruct(req)
}

// BindQuery fills req from the query string using its form tags.
func (u *HTTPHelper) BindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return models.NewValidationError(nonFieldErrors, "invalid query parameters")
	}
	return nil
}

func (u *HTTPHelper) ValidateStruct(req interface{}) error {
	err := u.Validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := map[string][]string{}
	for _, fe := range validationErrors {
		key := topLevelField(fe.Namespace())
		fields[key] = append(fields[key], fe.Translate(u.Translator))
	}
	return models.ErrorValidation{Fields: fields}
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return models.NewValidationError(nonFieldErrors, "request body is required")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		field := strings.SplitN(typeErr.Field, ".", 2)[0]
		return models.NewValidationError(field, fmt.Sprintf("must be of type %s", typeErr.Type))
	default:
		return models.NewValidationError(nonFieldErrors, "invalid JSON body")
	}
}

// topLevelField turns "CreateRecipeRequest.ingredients[0].amount" into "ingredients".
func topLevelField(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	if i := strings.IndexAny(namespace, ".["); i >= 0 {
		namespace = namespace[:i]
	}
	return namespace
}
