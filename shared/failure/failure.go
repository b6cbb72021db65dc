package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is an error that carries the HTTP status the transport answers with.
// Services return it for outcomes the caller can act on; anything else maps
// to 500.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidPageParam  = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
	InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
	ForbiddenError    = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
)

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// fromError keeps nil as nil so callers can wrap a result unconditionally.
func fromError(code int, err error) error {
	if err == nil {
		return nil
	}

	return newFailure(code, err.Error())
}

func BadRequest(err error) error {
	return fromError(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict reports a request that clashes with the current state of a
// resource, such as reserving a booth someone else holds.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

func Conflictf(format string, args ...any) error {
	return Conflict(fmt.Sprintf(format, args...))
}

func InternalError(err error) error {
	return fromError(http.StatusInternalServerError, err)
}

// GetCode unwraps err to its Failure status, or 500 when there is none.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func HasCode(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}

func IsConflict(err error) bool {
	return HasCode(err, http.StatusConflict)
}

func IsNotFound(err error) bool {
	return HasCode(err, http.StatusNotFound)
}
