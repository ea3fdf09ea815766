// Package repository provides data access for sparks, teasers, categories and users.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")
