package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fair/shared/constant"
	"fair/shared/failure"
)

// MapPqError turns integrity violations into conflicts so they reach the
// client as 409 instead of 500, and a value Postgres cannot parse, such as a
// malformed UUID, into a 400. Any other error is returned unchanged.
func MapPqError(err error, entity string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation:
		return failure.Conflict(fmt.Sprintf("%s already exists", entity)) //nolint:wrapcheck
	case constant.PqErrorCodeFkViolation:
		return failure.Conflict(fmt.Sprintf("%s is still referenced by other records", entity)) //nolint:wrapcheck
	case constant.PqErrorCodeInvalidText:
		return failure.BadRequestFromString(fmt.Sprintf("invalid %s identifier", entity)) //nolint:wrapcheck
	default:
		return err
	}
}
