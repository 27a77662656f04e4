package service

import (
	"context"
	"encoding/json"

	"github.com/maseurodrigo/TipStream-sub000/internal/domain"
	"github.com/maseurodrigo/TipStream-sub000/internal/hub"
	"github.com/maseurodrigo/TipStream-sub000/internal/store"
	pkglog "github.com/maseurodrigo/TipStream-sub000/pkg/log"
)

type relayService struct {
	hub   *hub.Hub
	store store.SessionStateStore
}

// NewRelayService creates a new RelayService instance.
func NewRelayService(h *hub.Hub, s store.SessionStateStore) RelayService {
	return &relayService{
		hub:   h,
		store: s,
	}
}

func (s *relayService) HandleJoin(ctx context.Context, c *hub.Client, sessionID string) error {
	l := pkglog.Ctx(ctx)

	// The snapshot is read and queued under the hub lock, atomically with the
	// membership change, so it is ordered before any later live update and
	// cannot miss a publish that races the join.
	replay := func() []byte {
		state, ok, err := s.store.Get(ctx, sessionID)
		if err != nil {
			l.Error().Err(err).Str(pkglog.FieldSessionID, sessionID).Msg("failed to load stored state")
			return nil
		}
		if !ok {
			return nil
		}
		data, err := json.Marshal(&domain.LastDataStateMessage{
			Type:  domain.MsgTypeLastDataState,
			State: state,
		})
		if err != nil {
			l.Error().Err(err).Str(pkglog.FieldSessionID, sessionID).Msg("failed to marshal replay")
			return nil
		}
		return data
	}

	s.hub.JoinRoom(c, sessionID, replay)

	// The joiner itself is not told about its own join.
	return s.hub.BroadcastToRoom(sessionID, domain.NewRoomUpdateMessage(sessionID), c.ID)
}

func (s *relayService) HandleLeave(ctx context.Context, c *hub.Client, sessionID string) error {
	s.hub.LeaveRoom(c, sessionID)
	return s.hub.BroadcastToRoom(sessionID, domain.NewRoomUpdateMessage(sessionID), c.ID)
}

func (s *relayService) HandlePublish(ctx context.Context, c *hub.Client, sessionID string, state json.RawMessage) error {
	// Last write wins; no validation of the blob's shape. Membership is not
	// enforced either: whoever knows the session ID may publish into it.
	if err := s.store.Put(ctx, sessionID, state); err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldSessionID, sessionID).Msg("failed to store state")
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeInternalError, "failed to store update"))
	}

	return s.hub.BroadcastToRoom(sessionID, &domain.ReceiveUpdateMessage{
		Type:  domain.MsgTypeReceiveUpdate,
		State: state,
	}, c.ID)
}

func (s *relayService) HandleMembersQuery(ctx context.Context, c *hub.Client, sessionID, requestID string) error {
	members, err := s.SessionMembers(ctx, sessionID)
	if err != nil {
		return s.hub.SendToClient(c.ID, &domain.RoomSocketsMessage{
			Type:      domain.MsgTypeRoomSockets,
			RequestID: requestID,
			Success:   false,
			Error:     err.Error(),
		})
	}

	return s.hub.SendToClient(c.ID, &domain.RoomSocketsMessage{
		Type:      domain.MsgTypeRoomSockets,
		RequestID: requestID,
		Success:   true,
		Sockets:   members,
	})
}

func (s *relayService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	// Enumerate from the registry, not from anything the client claimed.
	for _, sessionID := range s.hub.RoomsOf(c.ID) {
		if err := s.HandleLeave(ctx, c, sessionID); err != nil {
			l := pkglog.Ctx(ctx)
			l.Error().Err(err).
				Str(pkglog.FieldClientID, c.ID).
				Str(pkglog.FieldSessionID, sessionID).
				Msg("implicit leave failed")
		}
	}
	return nil
}

func (s *relayService) SessionMembers(ctx context.Context, sessionID string) ([]string, error) {
	return s.hub.RoomMembers(sessionID), nil
}

func (s *relayService) Stats(ctx context.Context) (domain.Stats, error) {
	sessions, clients := s.hub.Stats()
	stored, err := s.store.Len(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{
		Sessions:     sessions,
		Clients:      clients,
		StoredStates: stored,
	}, nil
}
