// Package apperrors holds the fixed error taxonomy surfaced by the
// session/escalation state store. Callers branch with errors.Is.
package apperrors

import "errors"

var (
	// ErrSessionNotFound: operation referenced an unknown session. Surfaced
	// to the caller, no retry.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStaleSession: operation attempted on a closed session. Closed is
	// terminal; no new escalations may be created.
	ErrStaleSession = errors.New("session is closed")

	// ErrDuplicateRoom: session creation race; an active or escalated
	// session already occupies the room. Caller should re-fetch.
	ErrDuplicateRoom = errors.New("room already has an active session")
)
