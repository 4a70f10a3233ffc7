package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the policy, workflow and repository layers.
// All of them are detected before any mutation is persisted.
var (
	// ErrForbidden is returned when the actor is not allowed to perform
	// the requested action on the record.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a record does not exist or is not
	// visible to the actor. Lookups scoped to an actor return this
	// instead of ErrForbidden so that the existence of other users'
	// records never leaks.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus is returned when a status value is outside the
	// record's status enum.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrDuplicateKey is returned on a uniqueness violation, e.g. two
	// electricity bills with the same bill number.
	ErrDuplicateKey = errors.New("duplicate key")
)

// DeliveryError reports a notification delivery failure that happened
// after the triggering mutation was already persisted. The state change
// is real; callers must surface the failure without rolling back.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsDelivery reports whether err is (or wraps) a DeliveryError.
func IsDelivery(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}
