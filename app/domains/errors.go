package domains

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is matched by every *FieldError
	ErrMissingField = errors.New("missing or invalid field")
	// ErrUnknownAgent is matched by every *UnknownAgentError
	ErrUnknownAgent = errors.New("bot not registered")
	// ErrInternal marks unexpected faults inside the registry
	ErrInternal = errors.New("internal registry error")
)

// FieldError reports a required request field that is absent, blank or of the wrong type
type FieldError struct {
	Field   string
	Message string
}

// NewMissingFieldError reports an absent field
func NewMissingFieldError(field string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("Missing required field: %s", field)}
}

// NewEmptyFieldError reports a present but blank field
func NewEmptyFieldError(field string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("Field '%s' cannot be empty", field)}
}

// NewInvalidFieldError reports a field of the wrong JSON type
func NewInvalidFieldError(field, expected string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("Field '%s' must be of type %s", field, expected)}
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField
}

// UnknownAgentError reports an operation on a bot id that is not registered
type UnknownAgentError struct {
	BotID string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("bot %s is not registered", e.BotID)
}

func (e *UnknownAgentError) Is(target error) bool {
	return target == ErrUnknownAgent
}
