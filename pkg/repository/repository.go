package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/seefood/pkg/model"
)

// Repository is a durable string-keyed, string-valued store
type Repository interface {
	// Get returns the value stored under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value. A backend
	// returns an error wrapping model.ErrStorageQuotaExceeded when the value
	// does not fit.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// IsQuotaExceeded reports whether a write error means the store is full.
// Backends that translate their native errors are matched by
// model.ErrStorageQuotaExceeded. For others only the message of the root
// cause is checked, case-sensitively, so wrapping context such as file
// paths cannot turn an unrelated failure into a quota error.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, model.ErrStorageQuotaExceeded) {
		return true
	}
	msg := rootCause(err).Error()
	return strings.Contains(msg, "quota") || strings.Contains(msg, "full")
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
