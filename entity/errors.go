package entity

import "errors"

// ErrNotFound is returned by repositories when a record does not exist, so
// callers never have to know which ORM produced the miss.
var ErrNotFound = errors.New("record not found")
