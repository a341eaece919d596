package hos

import "errors"

var (
	ErrInvalidInput = errors.New("invalid trip input")
	ErrInvariant    = errors.New("allocation invariant violation")
)
