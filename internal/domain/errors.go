package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCatalogUnavailable is returned when a catalog-dependent operation
	// runs before the catalog has been loaded.
	ErrCatalogUnavailable = errors.New("product catalog not loaded")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrBadSchema is returned when the catalog file lacks required columns.
	ErrBadSchema = errors.New("catalog file schema invalid")
)

// SchemaError reports the required catalog columns missing from the source
// file. It unwraps to ErrBadSchema.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog file missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrBadSchema }

// ValidationError describes malformed caller input. Item is the 1-based
// position of the offending batch entry, or 0 for single-query requests.
// It unwraps to ErrInvalidRequest.
type ValidationError struct {
	Item    int
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }
