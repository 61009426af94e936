// Package apperr defines the sentinel errors shared across partsdb.
package apperr

import "errors"

var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrUnsupportedProvider = errors.New("unsupported API")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
)
