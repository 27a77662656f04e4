package service

import (
	"context"
	"encoding/json"

	"github.com/maseurodrigo/TipStream-sub000/internal/domain"
	"github.com/maseurodrigo/TipStream-sub000/internal/hub"
)

// RelayService defines the session relay operations.
type RelayService interface {
	// HandleJoin adds a client to a session, notifies the other members and
	// replays the last stored state to the joiner if one exists.
	HandleJoin(ctx context.Context, c *hub.Client, sessionID string) error

	// HandleLeave removes a client from a session and notifies the others.
	HandleLeave(ctx context.Context, c *hub.Client, sessionID string) error

	// HandlePublish stores a state snapshot for a session and broadcasts it
	// to every member except the publisher.
	HandlePublish(ctx context.Context, c *hub.Client, sessionID string, state json.RawMessage) error

	// HandleMembersQuery answers an ack-style membership query on the
	// requesting client's connection.
	HandleMembersQuery(ctx context.Context, c *hub.Client, sessionID, requestID string) error

	// HandleDisconnect treats a transport close as an implicit leave of every
	// session the client belonged to at that moment.
	HandleDisconnect(ctx context.Context, c *hub.Client) error

	// SessionMembers returns the connection IDs of every member of a session.
	SessionMembers(ctx context.Context, sessionID string) ([]string, error)

	// Stats returns relay-wide counters.
	Stats(ctx context.Context) (domain.Stats, error)
}
