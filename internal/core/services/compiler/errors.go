package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyCommands = errors.New("too many commands")
	ErrDuplicateName   = errors.New("duplicate command name")
)

// ValidationError reports a command declaration that cannot be turned into a
// valid registration object.
type ValidationError struct {
	Command string
	Field   string
	Err     error
}

func (e *ValidationError) Error() string {
	name := e.Command
	if name == "" {
		name = "<unnamed>"
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid command %q: %v", name, e.Err)
	}
	return fmt.Sprintf("invalid command %q: %s: %v", name, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(command, field, format string, args ...any) *ValidationError {
	return &ValidationError{Command: command, Field: field, Err: fmt.Errorf(format, args...)}
}
