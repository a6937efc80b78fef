package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdir/internal/client/client"
	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/client/services"
)

// ErrorMessage turns an operation error into the single line shown to the
// operator. action reads as a verb phrase, e.g. "load users".
func ErrorMessage(action string, err error) string {
	var (
		ve *models.ValidationError
		se *client.ServerError
	)
	switch {
	case errors.As(err, &ve):
		return fmt.Sprintf("Invalid %s: %s.", ve.Field, ve.Reason)
	case errors.Is(err, services.ErrInFlight):
		return fmt.Sprintf("Cannot %s: the previous request is still in progress.", action)
	case errors.As(err, &se):
		return fmt.Sprintf("Failed to %s: server answered HTTP %d.", action, se.StatusCode)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("Cancelled: %s.", action)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Sprintf("Failed to %s: backend unreachable, check that the server is running.", action)
	}
	return fmt.Sprintf("Failed to %s: %v.", action, err)
}

// OperatorError carries the operator message while keeping the cause
// reachable through errors.Is and errors.As.
type OperatorError struct {
	Msg string
	Err error
}

func (e *OperatorError) Error() string { return e.Msg }

func (e *OperatorError) Unwrap() error { return e.Err }

// ErrorWrapper is a simple wrapper for CLI error handling.
// A nil err stays nil.
func ErrorWrapper(action string, err error) error {
	if err == nil {
		return nil
	}
	return &OperatorError{Msg: ErrorMessage(action, err), Err: err}
}
