package services

import "errors"

// ErrNotFound indicates a referenced project, document, space, or item
// does not exist. Handlers map it to a 404 rather than an internal error.
var ErrNotFound = errors.New("not found")
