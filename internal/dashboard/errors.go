package dashboard

import "errors"

var (
	ErrNotFound    = errors.New("interview not found")
	ErrInvalidSort = errors.New("invalid sort key")
)
