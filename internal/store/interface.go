package store

import (
	"context"
	"encoding/json"
)

// SessionStateStore holds the last-known state per session identifier.
// State is an opaque blob: it is stored and replayed verbatim, never parsed.
// Entries are created on first Put and overwritten on each subsequent one;
// they are never deleted for the life of the process.
type SessionStateStore interface {
	// Put overwrites the stored state for a session, unconditionally.
	Put(ctx context.Context, sessionID string, state json.RawMessage) error

	// Get returns the stored state for a session, or ok=false if no update
	// has ever been stored for that identifier.
	Get(ctx context.Context, sessionID string) (json.RawMessage, bool, error)

	// Len returns the number of sessions with stored state.
	Len(ctx context.Context) (int, error)
}
