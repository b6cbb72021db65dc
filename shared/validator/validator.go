package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"fair/shared/base64"
	"fair/shared/constant"
	"fair/shared/failure"
)

// maxBodyBytes bounds a JSON request body. Base64 logos are the largest
// payload accepted.
const maxBodyBytes = 4 << 20

const megabyte = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	rules := map[string]val.Func{
		"mimetypes":   mimetypes,
		"maxfilesize": maxFileSize,
	}

	for tag, rule := range rules {
		if err := v.RegisterValidation(tag, rule); err != nil {
			panic(err)
		}
	}

	// JSON names in messages so clients see "booth_ids is required" rather than "BoothIDs".
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	return v
}

// mimetypes accepts an uploaded file or a base64 data URL whose media type
// is listed in the space separated param.
func mimetypes(field val.FieldLevel) bool {
	var contentType string

	switch upload := field.Field().Interface().(type) {
	case multipart.FileHeader:
		contentType = upload.Header.Get(constant.RequestHeaderContentType)
	case string:
		contentType = base64.GetContentType(upload)
	}

	return contentType != "" && slices.Contains(strings.Fields(field.Param()), contentType)
}

// maxFileSize takes its limit in (possibly fractional) megabytes.
func maxFileSize(field val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	var size int64

	switch upload := field.Field().Interface().(type) {
	case multipart.FileHeader:
		size = upload.Size
	case string:
		size = int64(len(upload))
	}

	return float64(size) <= limit*megabyte
}

// Validate decodes a JSON body into data and validates the result. Decoding
// and validation problems are both reported as 400 failures.
func Validate[T any](r io.Reader, data *T) error {
	err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(data)

	switch {
	case errors.Is(err, io.EOF):
		return failure.BadRequestFromString("request body is empty") //nolint:wrapcheck
	case err != nil:
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateID rejects an identifier that is not a UUID, so a malformed path
// parameter is a bad request rather than a failed query.
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return failure.BadRequestFromString("id must be a valid UUID") //nolint:wrapcheck
	}

	return nil
}
