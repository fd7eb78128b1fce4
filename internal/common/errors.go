package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// ErrKeyNotInitialized means a vault operation ran before the encryption
	// secret was available. This is a programming fault, never a job fault.
	ErrKeyNotInitialized = errors.New("encryption key not initialized")

	// ErrCiphertextCorrupt means authenticated decryption failed: the blob is
	// corrupt or was sealed under a different key. Kept distinct from generic
	// input errors so callers can tell tampering apart from bad requests.
	ErrCiphertextCorrupt = errors.New("ciphertext corrupt or wrong key")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
