package repository

import "errors"

// ErrNotFound is returned when a query matches no row.
var ErrNotFound = errors.New("record not found")
