package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidType   = "INVALID_TYPE"
	CodeInvalidLength = "INVALID_LENGTH"
	CodeInvalidRange  = "INVALID_RANGE"
	CodeInvalidValue  = "INVALID_VALUE"
	CodeDuplicate     = "DUPLICATE_IN_FILE"
	CodeConflict      = "ALREADY_EXISTS"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not UTF-8 encoded")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
	ErrTooManyRows     = errors.New("CSV file exceeds the row limit")
)

// RowError is a problem with one cell or row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps the first maxErrors errors and counts the rest
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection creates a collection; non-positive limits mean 100
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records an error
func (c *ErrorCollection) Add(err RowError) {
	c.total++
	if len(c.errors) < c.maxErrors {
		c.errors = append(c.errors, err)
	}
}

// Errors returns the retained errors in insertion order
func (c *ErrorCollection) Errors() []RowError {
	return c.errors
}

// Total counts every error added, including dropped ones
func (c *ErrorCollection) Total() int {
	return c.total
}

// HasErrors reports whether anything was added
func (c *ErrorCollection) HasErrors() bool {
	return c.total > 0
}

// Truncated reports whether errors were dropped
func (c *ErrorCollection) Truncated() bool {
	return c.total > len(c.errors)
}
