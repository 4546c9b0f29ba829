// Package errs defines the error taxonomy shared by the hash table and the
// recency cache.
//
// Every sentinel is a platform error, so callers can match either by
// identity with errors.Is or by code with errors.GetCode. Operations wrap
// the sentinel with the offending key for context:
//
//	if errors.Is(err, errs.ErrNotFound) {
//	    // compute and insert
//	}
//
// None of these errors are retryable.
package errs

import (
	"errors"

	perrors "github.com/jmgilman/go/errors"
)

var (
	// ErrInvalidArgument reports a nil key or value, or a capacity below the minimum.
	ErrInvalidArgument = perrors.New(perrors.CodeInvalidInput, "invalid argument")

	// ErrNotFound reports a lookup or removal of an absent key.
	ErrNotFound = perrors.New(perrors.CodeNotFound, "key not found")

	// ErrEmpty reports an MRU/LRU access on a cache with no entries.
	ErrEmpty = perrors.New(perrors.CodeNotFound, "cache is empty")

	// ErrNoSuchElement reports an iterator moved past either end of the list.
	ErrNoSuchElement = perrors.New(perrors.CodeNotFound, "no such element")
)

// Code returns the platform error code carried by err, or CodeUnknown.
func Code(err error) perrors.ErrorCode {
	return perrors.GetCode(err)
}

// IsNotFound reports whether err means the key was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
