package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsCustomError(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewNotFound("Transaction not found"))
	ce := AsCustomError(wrapped)
	if ce.Code != http.StatusNotFound || ce.Type != TypeNotFound {
		t.Errorf("expected wrapped not found, got %+v", ce)
	}

	ce = AsCustomError(errors.New("disk full"))
	if ce.Code != http.StatusInternalServerError || ce.Type != TypeInternal {
		t.Errorf("expected internal error, got %+v", ce)
	}
	if ce.Message != "An internal error occurred: disk full" {
		t.Errorf("unexpected message %q", ce.Message)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *CustomError
		code int
		typ  string
	}{
		{NewUnauthenticated("x"), http.StatusUnauthorized, TypeUnauthenticated},
		{NewInvalidToken("x"), http.StatusForbidden, TypeUnauthenticated},
		{NewForbidden("x"), http.StatusForbidden, TypeForbidden},
		{NewProfileNotFound(http.StatusNotFound, "x"), http.StatusNotFound, TypeProfileNotFound},
		{NewValidation("x"), http.StatusBadRequest, TypeValidation},
		{NewAlreadyMinted("x"), http.StatusBadRequest, TypeAlreadyMinted},
		{NewNotYetMinted("x"), http.StatusNotFound, TypeNotYetMinted},
		{NewMissingWallet("x"), http.StatusBadRequest, TypeMissingWallet},
		{NewConflict("", "x"), http.StatusBadRequest, TypeConflict},
		{NewConflict(TypeTransactionState, "x"), http.StatusBadRequest, TypeTransactionState},
		{NewCriticalInconsistency("x"), http.StatusInternalServerError, TypeCriticalInconsistency},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code || tt.err.Type != tt.typ {
			t.Errorf("%s: expected %d/%s, got %d/%s", tt.err.Message, tt.code, tt.typ, tt.err.Code, tt.err.Type)
		}
	}

	if msg := NewCriticalInconsistency("missing id").Message; msg != "CRITICAL: missing id" {
		t.Errorf("unexpected critical message %q", msg)
	}
	if !IsType(fmt.Errorf("w: %w", NewMissingWallet("x")), TypeMissingWallet) {
		t.Error("IsType should see through wrapping")
	}
	if IsType(errors.New("plain"), TypeInternal) {
		t.Error("IsType matched a plain error")
	}
}
