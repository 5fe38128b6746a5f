package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

// translate maps driver errors onto domain errors. Only unique violations
// are recognised; every other error is returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		detail := pqErr.Detail
		if detail == "" {
			detail = pqErr.Message
		}
		return &domain.ConflictError{Detail: detail, Err: err}
	}
	return err
}
