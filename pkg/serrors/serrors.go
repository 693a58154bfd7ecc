// Package serrors carries service-level failures together with the HTTP status and
// stable code they are reported with.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func (e *ServiceError) HTTPStatus() int       { return e.Status }
func (e *ServiceError) ErrorCode() string     { return e.Code }
func (e *ServiceError) PublicMessage() string { return e.Message }

func New(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

func BadRequest(code, message string) *ServiceError {
	return New(http.StatusBadRequest, code, message, nil)
}

func NotFound(code, message string, cause error) *ServiceError {
	return New(http.StatusNotFound, code, message, cause)
}

func Conflict(code, message string) *ServiceError {
	return New(http.StatusConflict, code, message, nil)
}

func Forbidden(code, message string) *ServiceError {
	return New(http.StatusForbidden, code, message, nil)
}

func Unprocessable(code, message string, cause error) *ServiceError {
	return New(http.StatusUnprocessableEntity, code, message, cause)
}

var writeConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "laurel",
	Subsystem: "write",
	Name:      "conflicts_total",
	Help:      "Total number of rejected writes broken down by constraint kind.",
}, []string{"kind"})

func recordWriteConflict(kind string) {
	writeConflicts.WithLabelValues(kind).Inc()
}

// MapPg passes ServiceErrors through and translates constraint violations and
// missing rows; anything else is returned unchanged.
func MapPg(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound("NOT_FOUND", "not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		recordWriteConflict("unique")
		return New(http.StatusConflict, "CONFLICT", "unique constraint violated", err)
	case "23503": // foreign_key_violation
		recordWriteConflict("foreign_key")
		return New(http.StatusUnprocessableEntity, "REFERENCE_INVALID", "referenced record does not exist", err)
	case "23514", "23502": // check_violation, not_null_violation
		recordWriteConflict("check")
		return New(http.StatusUnprocessableEntity, "CONSTRAINT_VIOLATION", "constraint violated", err)
	case "40001", "40P01": // serialization_failure, deadlock_detected
		recordWriteConflict("serialization")
		return New(http.StatusConflict, "CONCURRENT_UPDATE", "concurrent update, retry the request", err)
	default:
		return err
	}
}

// Validation turns validator failures into a 400 that names every offending field,
// e.g. "menu_name is required; menu_route must be <= 255".
func Validation(err error) *ServiceError {
	return New(http.StatusBadRequest, "INVALID_ARGUMENT", ValidationMessage(err), err)
}

func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, field+" must be one of ["+fe.Param()+"]")
		case "min", "gte":
			parts = append(parts, field+" must be >= "+fe.Param())
		case "max", "lte":
			parts = append(parts, field+" must be <= "+fe.Param())
		default:
			parts = append(parts, field+" is invalid ("+fe.Tag()+")")
		}
	}
	return strings.Join(parts, "; ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
