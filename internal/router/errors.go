package router

import (
	"fmt"
	"strings"
)

// inputError signals text that is empty after sanitation.
type inputError struct{}

func (inputError) Error() string { return "the input text must be set" }

// ErrInput constructs the empty-input failure.
func ErrInput() error { return inputError{} }

// IsInput reports whether err is the empty-input failure.
func IsInput(err error) bool {
	_, ok := err.(inputError)
	return ok
}

// unknownServiceError signals an id with no registered descriptor.
type unknownServiceError struct{ id string }

func (e unknownServiceError) Error() string { return "there is no '" + e.id + "' service" }

// ErrUnknownService constructs an error for an unregistered service id.
func ErrUnknownService(id string) error { return unknownServiceError{id: id} }

// IsUnknownService reports whether err indicates an unregistered id.
func IsUnknownService(err error) bool {
	_, ok := err.(unknownServiceError)
	return ok
}

// unavailableError signals a registered service whose initialization failed.
type unavailableError struct{ name string }

func (e unavailableError) Error() string {
	return "the " + e.name + " service is not currently available"
}

// ErrUnavailable constructs an error for a service that failed to initialize.
func ErrUnavailable(name string) error { return unavailableError{name: name} }

// IsUnavailable reports whether err indicates a failed-to-initialize service.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// optionError collects every validation problem of one request.
type optionError struct {
	id       string
	name     string
	problems []string
}

func (e optionError) Error() string {
	return fmt.Sprintf("running the '%s' (%s) service failed: %s",
		e.id, e.name, strings.Join(e.problems, "; "))
}

// ErrOption constructs an error enumerating all option problems.
func ErrOption(id, name string, problems []string) error {
	return optionError{id: id, name: name, problems: problems}
}

// IsOption reports whether err indicates option validation problems.
func IsOption(err error) bool {
	_, ok := err.(optionError)
	return ok
}

// busyError signals a cache path already being produced by another call.
type busyError struct {
	id   string
	path string
}

func (e busyError) Error() string {
	return fmt.Sprintf("the '%s' service is already busy processing %s", e.id, e.path)
}

// ErrBusy constructs an error for an in-flight cache path.
func ErrBusy(id, path string) error { return busyError{id: id, path: path} }

// IsBusy reports whether err indicates a single-flight conflict.
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// executionError wraps a failure raised by an engine's Run.
type executionError struct {
	id  string
	err error
}

func (e executionError) Error() string {
	return fmt.Sprintf("the '%s' service failed: %v", e.id, e.err)
}

func (e executionError) Unwrap() error { return e.err }

// ErrExecution constructs an error wrapping a failed engine run.
func ErrExecution(id string, err error) error { return executionError{id: id, err: err} }

// IsExecution reports whether err indicates a failed engine run.
func IsExecution(err error) bool {
	_, ok := err.(executionError)
	return ok
}
