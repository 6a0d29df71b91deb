// Package repository implements persistence over database/sql.  This
// file defines sentinel errors shared across repositories so handlers
// and services can distinguish failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when inserting a user with an email that
// is already registered.  Surfaces as HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a requested row does not exist.
// Surfaces as HTTP 404, or is folded into 401 by the auth service.
var ErrNotFound = errors.New("not found")

// ErrNoActiveToken is returned by the token ledger when no live entry
// matches a presented refresh token.
var ErrNoActiveToken = errors.New("no active refresh token")
