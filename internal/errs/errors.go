package errs

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserExists is returned when signing up with a taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when an operation references an unknown user.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotFound is returned when no record exists for the requested key.
	ErrNotFound = errors.New("record not found")
)

// ValidationError reports a user input that failed a field rule. It is always
// recoverable and never logged as severe.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for the given field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a persistence failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [%s]: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage logs the failure with its operation context and returns it wrapped.
// The raw detail stays in the log; callers surface a generic message.
func Storage(op string, err error) error {
	se := &StorageError{Op: op, Err: err}
	log.Printf("%v", se)
	return se
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ConfigurationError reports a missing runtime primitive. It is fatal for the
// operation and not user-recoverable.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Configuration wraps err as a ConfigurationError.
func Configuration(op string, err error) error {
	return &ConfigurationError{Op: op, Err: err}
}
