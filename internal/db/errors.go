package db

import "errors"

// ErrInUse is returned by delete operations when the record is still
// referenced by tasks and the delete was rolled back.
var ErrInUse = errors.New("record is referenced by tasks")
