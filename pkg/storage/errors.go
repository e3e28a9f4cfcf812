package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional write lost a race: a record was
// modified (or created) by someone else since it was read.
var ErrConflict = errors.New("concurrent modification")
