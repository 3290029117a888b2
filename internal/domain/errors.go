package domain

import "errors"

// ErrNotFound is returned when a record does not exist or belongs to a
// different client. Callers must not distinguish the two cases.
var ErrNotFound = errors.New("not found")
