// Package errhandling defines the error categories surfaced by loading,
// column selection and processing. Every failure in the core is caused by
// user input, so none of them are retryable.
package errhandling

import (
	"errors"
	"fmt"
)

// Category classifies an Error.
type Category string

const (
	// CategoryInput is an unreadable or unparseable input file.
	CategoryInput Category = "input"

	// CategoryColumnNotFound is a selected column that the table does not
	// offer for processing.
	CategoryColumnNotFound Category = "column_not_found"

	// CategoryConfiguration is an invalid processor setting.
	CategoryConfiguration Category = "configuration"

	// CategoryEmptyInput is an operation on a zero-length or all-null series.
	CategoryEmptyInput Category = "empty_input"

	// CategoryBusy is an operation attempted while a load is in progress.
	CategoryBusy Category = "busy"
)

// Error wraps an underlying error with a Category.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

func NewInputError(err error, format string, args ...any) *Error {
	return &Error{Category: CategoryInput, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewColumnNotFoundError(column string) *Error {
	if column == "" {
		return &Error{Category: CategoryColumnNotFound, Message: "no column selected"}
	}
	return &Error{Category: CategoryColumnNotFound, Message: fmt.Sprintf("column %q not available", column)}
}

func NewConfigurationError(format string, args ...any) *Error {
	return &Error{Category: CategoryConfiguration, Message: fmt.Sprintf(format, args...)}
}

func NewEmptyInputError(format string, args ...any) *Error {
	return &Error{Category: CategoryEmptyInput, Message: fmt.Sprintf(format, args...)}
}

func NewBusyError(op string) *Error {
	return &Error{Category: CategoryBusy, Message: op + " rejected while a load is in progress"}
}

// CategoryOf returns the category of the first Error in err's chain, or ""
// when err carries none.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// Is reports whether err carries the given category.
func Is(err error, c Category) bool {
	return err != nil && CategoryOf(err) == c
}
