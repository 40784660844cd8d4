// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/utils"
)

// ErrGatewayTimeout means the payment gateway did not answer in time. The
// remote order may exist; the verification callback reconciles it.
var ErrGatewayTimeout = errors.New("payment gateway timed out, outcome unknown: reconcile via verification")

type ValidationError struct {
	Fields []utils.ValidationError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewValidationError(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []utils.ValidationError{{Field: field, Tag: tag, Message: message}}}
}

// validate runs struct validation and converts failures to a ValidationError.
func validate(req interface{}) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: utils.GetValidationErrors(err)}
	}
	return fmt.Errorf("validation failed: %w", err)
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StoreError wraps an unexpected persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Retryable reports that the caller may repeat the request.
func (e *StoreError) Retryable() bool { return true }

type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "payment gateway error: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }

// storeError classifies an error returned by a store call.
func storeError(op, resource string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return &NotFoundError{Resource: resource}
	case errors.Is(err, store.ErrDuplicate):
		return &ConflictError{Resource: resource, Message: resource + " already exists"}
	}
	logrus.WithError(err).WithField("op", op).Error("Store operation failed")
	return &StoreError{Op: op, Err: err}
}
