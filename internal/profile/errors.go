package profile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotAuthenticated is returned when there is neither a caller nor an
	// explicit profile to show. Callers should send the user to sign in.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound indicates the requested profile does not exist.
	ErrNotFound = errors.New("profile not found")

	// ErrNotOwner is returned when someone other than the owner tries to edit.
	ErrNotOwner = errors.New("only the profile owner can edit it")

	// ErrSubmitInFlight is returned when a save is already running for the session.
	ErrSubmitInFlight = errors.New("a save is already in progress")

	// ErrInvalidTransition is returned for operations not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid edit session transition")

	// ErrUnknownField is returned by ChangeField for names outside EditableFields.
	ErrUnknownField = errors.New("unknown profile field")
)

// ErrorSet maps a field name to a single human-readable message.
// An empty set means the candidate data is acceptable.
type ErrorSet map[string]string

// Clone returns an independent copy of the set.
func (e ErrorSet) Clone() ErrorSet {
	out := make(ErrorSet, len(e))
	maps.Copy(out, e)
	return out
}

// Fields returns the failing field names in sorted order.
func (e ErrorSet) Fields() []string {
	return slices.Sorted(maps.Keys(e))
}

// ValidationError carries the field errors of a rejected draft.
type ValidationError struct {
	Errors ErrorSet
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StoreError reports a failed persistence write. Message is shown to the user
// unchanged.
type StoreError struct {
	Message string
	Err     error
}

// NewStoreError wraps err as a store failure, using its text as the message.
func NewStoreError(err error) *StoreError {
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}
	msg := "store write failed"
	if err != nil {
		msg = err.Error()
	}
	return &StoreError{Message: msg, Err: err}
}

func (e *StoreError) Error() string { return e.Message }

func (e *StoreError) Unwrap() error { return e.Err }
