package errors

import (
	"errors"

	"github.com/lib/pq"
)

// Business-rule violations returned by the booking, cancellation and
// inventory engines. Handlers map these to HTTP statuses; none of them
// ever leaves partial state behind.
var (
	ErrBusNotFound         = errors.New("bus not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSeatUnavailable     = errors.New("seat already taken or out of range")
	ErrNoCapacity          = errors.New("no free seat available")
	ErrNoSeatsAvailable    = errors.New("no seats available")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrAlreadyCancelled    = errors.New("ticket already cancelled")
	ErrCapacityBelowBooked = errors.New("cannot reduce seats below already booked seats")

	// ErrTransientConflict marks lock contention or a serialization
	// failure; the transaction touched nothing and is safe to retry.
	ErrTransientConflict = errors.New("transient store conflict")

	// ErrStoreUnavailable marks a connection or durability failure where
	// the outcome is unknown; callers must re-query state before retrying.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")
)

// Postgres error codes after which the whole transaction can be retried.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

// IsRetryable reports whether err is a store-level conflict worth
// retrying with backoff.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTransientConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pqSerializationFailure || code == pqDeadlockDetected || code == pqLockNotAvailable
	}
	return false
}

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
