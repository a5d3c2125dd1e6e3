package repository

import "errors"

// ErrNotFound is returned when a record does not exist or is inactive.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an optimistic update keeps losing to concurrent writers.
var ErrConflict = errors.New("concurrent update conflict")
