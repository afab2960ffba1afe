package shared

import "errors"

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("not found")
