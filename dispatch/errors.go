package dispatch

import "errors"

// Error taxonomy for the coordination core. Callers classify failures with
// errors.Is and map them onto the HTTP surface.
var (
	// ErrInvalidArgument marks a missing or malformed identifier caught
	// before any store access
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a lookup that resolved to zero records
	ErrNotFound = errors.New("not found")

	// ErrDispatchFailed marks a fan-out that could not even query the
	// registry. Individual delivery failures are not this; they live in
	// the receipt.
	ErrDispatchFailed = errors.New("dispatch failed")

	// ErrStoreWriteFailed marks a failed write of a primary record
	ErrStoreWriteFailed = errors.New("store write failed")
)
