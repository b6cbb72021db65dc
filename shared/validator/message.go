package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"uuid":        "{field} must be a valid UUID",
	"url":         "{field} must be a valid URL",
	"oneof":       "{field} must be one of {param}",
	"unique":      "{field} must not contain duplicates",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"nefield":     "{field} must differ from {param}",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// Length bounds read differently for text, lists and numbers.
var boundMessages = map[string]map[reflect.Kind]string{
	"min": {
		reflect.String: "{field} must be at least {param} characters",
		reflect.Slice:  "{field} must contain at least {param} items",
		reflect.Int:    "{field} must be greater than or equal to {param}",
	},
	"max": {
		reflect.String: "{field} must be at most {param} characters",
		reflect.Slice:  "{field} must contain at most {param} items",
		reflect.Int:    "{field} must be less than or equal to {param}",
	},
}

func template(fieldErr val.FieldError) string {
	bounds, ok := boundMessages[fieldErr.Tag()]
	if !ok {
		return messages[fieldErr.Tag()]
	}

	switch kind := fieldErr.Kind(); kind {
	case reflect.String, reflect.Slice:
		return bounds[kind]
	case reflect.Array, reflect.Map:
		return bounds[reflect.Slice]
	default:
		return bounds[reflect.Int]
	}
}

// message renders the first validation failure the way clients read it,
// e.g. "booth_ids must not contain duplicates".
func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	for _, fieldErr := range fieldErrs {
		if text := template(fieldErr); text != "" {
			return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(text)
		}
	}

	return fieldErrs.Error()
}
