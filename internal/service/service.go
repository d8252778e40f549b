// Package service implements the compliance evidence engine on top of the repositories.
// Every entry point is stateless and safe to call concurrently; tenant isolation comes
// from scoping each store call by the caller's tenant.
package service

import (
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/repository"
)

// clock is overridden in tests.
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func requireRead(c model.Caller) error {
	if c.TenantID == "" {
		return apperr.Forbidden("tenant is required")
	}
	if !c.CanRead() {
		return apperr.Forbidden("role may not read documents")
	}
	return nil
}

func requireWrite(c model.Caller) error {
	if c.TenantID == "" {
		return apperr.Forbidden("tenant is required")
	}
	if !c.CanWrite() {
		return apperr.Forbidden("role may not modify documents")
	}
	return nil
}

func requireAdmin(c model.Caller) error {
	if c.TenantID == "" {
		return apperr.Forbidden("tenant is required")
	}
	if !c.IsAdmin() {
		return apperr.Forbidden("administrator role required")
	}
	return nil
}

// storeError converts repository sentinels into domain errors.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrConflict):
		return apperr.Conflict("", "the record was changed by another request")
	default:
		if _, ok := apperr.As(err); ok {
			return err
		}
		return apperr.Internal("store failure", err)
	}
}

// validationError reports the first failing field of an ozzo result.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return apperr.Validation("", err.Error())
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	e := apperr.Validation(fields[0], errs[fields[0]].Error())
	e.Err = err
	return e
}

func validElement(value any) error {
	n, _ := value.(int)
	if !model.ValidElement(n) {
		return validation.NewError("validation_element_range", "must be between 1 and 14")
	}
	return nil
}

func checkElement(n int) error {
	if !model.ValidElement(n) {
		return apperr.Validation("element_number", "must be between 1 and 14")
	}
	return nil
}
