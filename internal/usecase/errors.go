package usecase

import (
	"errors"
	"strings"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// AsDomainError unwraps err into a *DomainError when it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func newValidationError(fields []ValidationError) *DomainError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Fields:  fields,
	}
}

func errLeadNotFound() *DomainError {
	return &DomainError{Code: CodeNotFound, Message: "Lead not found"}
}

func errInvalidStatus() *DomainError {
	return &DomainError{Code: CodeInvalidStatus, Message: "Invalid status"}
}

func technical(msg string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeInternal, Message: msg, Err: err}
}
