package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store operations. Handlers translate these
// into HTTP statuses; the store never panics and never retries on its own.
var (
	// ErrNotFound means a referenced id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is not valid for the entity's
	// current state (double-cancel, bad exit condition, mixed-gender group).
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicateRequest means the student already has a waiting entry or
	// an active session.
	ErrDuplicateRequest = errors.New("duplicate request")

	// ErrStallNotFree means the stall changed state between seed match and
	// commit. The caller should re-run the seed match.
	ErrStallNotFree = errors.New("stall not free")

	// ErrEntryNotWaiting means a waiting entry was consumed by a concurrent
	// commit or cancellation.
	ErrEntryNotWaiting = errors.New("entry not waiting")

	// ErrNoActiveSession means a release was attempted for a student with
	// nothing to release.
	ErrNoActiveSession = errors.New("no active session")

	// ErrAlreadyClosed means the session's exit is already recorded.
	ErrAlreadyClosed = errors.New("session already closed")
)

// CommitError reports which member of an assignment group made the commit
// fail. The whole transaction is rolled back; no group member is left
// matched without a session.
type CommitError struct {
	StudentID string
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed for student %s: %v", e.StudentID, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
