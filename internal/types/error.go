package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types reported in the "type" field of error responses
const (
	TypeUnauthenticated       = "auth.unauthenticated"
	TypeForbidden             = "auth.forbidden"
	TypeProfileNotFound       = "auth.profile"
	TypeValidation            = "validation"
	TypeNotFound              = "not_found"
	TypeAlreadyMinted         = "property.already_minted"
	TypeNotYetMinted          = "property.not_minted"
	TypeMissingWallet         = "user.missing_wallet"
	TypeConflict              = "conflict"
	TypeTransactionState      = "transaction.state"
	TypeCriticalInconsistency = "transaction.inconsistent"
	TypeInternal              = "internal"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewUnauthenticated is a missing or malformed credential
func NewUnauthenticated(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: TypeUnauthenticated}
}

// NewInvalidToken is a credential the identity provider rejected or that expired
func NewInvalidToken(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeUnauthenticated}
}

func NewForbidden(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeForbidden}
}

// NewProfileNotFound is an authenticated identity with no user record.
// code lets role-gated routes report it as 403 and profile routes as 404.
func NewProfileNotFound(code int, message string) *CustomError {
	return &CustomError{Code: code, Message: message, Type: TypeProfileNotFound}
}

func NewValidation(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation}
}

func NewNotFound(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotFound}
}

func NewAlreadyMinted(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeAlreadyMinted}
}

// NewNotYetMinted is an approved property whose token id is still null; retry later
func NewNotYetMinted(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotYetMinted}
}

func NewMissingWallet(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeMissingWallet}
}

func NewConflict(errorType, message string) *CustomError {
	if errorType == "" {
		errorType = TypeConflict
	}
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: errorType}
}

// NewCriticalInconsistency is a state reached without its prerequisite
func NewCriticalInconsistency(message string) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: "CRITICAL: " + message, Type: TypeCriticalInconsistency}
}

func NewInternal(message string) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: message, Type: TypeInternal}
}

// AsCustomError unwraps err into a CustomError, degrading anything else to Internal
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return NewInternal(fmt.Sprintf("An internal error occurred: %v", err))
}

// IsType reports whether err is a CustomError of the given type
func IsType(err error, errorType string) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Type == errorType
}
