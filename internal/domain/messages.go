package domain

import "encoding/json"

// WebSocket message types from client.
const (
	MsgTypeJoinRoom       = "join_room"
	MsgTypeLeaveRoom      = "leave_room"
	MsgTypeUpdate         = "update"
	MsgTypeGetRoomSockets = "get_room_sockets"
	MsgTypePing           = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeRoomUpdate    = "room_update"
	MsgTypeReceiveUpdate = "receive_update"
	MsgTypeLastDataState = "last_data_state"
	MsgTypeRoomSockets   = "room_sockets"
	MsgTypeError         = "error"
	MsgTypePong          = "pong"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

// JoinRoomMessage is sent by a client to join a session.
type JoinRoomMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// LeaveRoomMessage is sent by a client to leave a session.
type LeaveRoomMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// UpdateMessage carries a full state snapshot from the editor. The relay
// treats Updates as an opaque blob; it is stored and forwarded verbatim.
type UpdateMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Updates   json.RawMessage `json:"updates"`
}

// GetRoomSocketsMessage is an ack-style membership query. The reply carries
// the same request ID so the client can correlate it.
type GetRoomSocketsMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	RequestID string `json:"request_id"`
}

// Server -> Client messages

// RoomUpdateMessage tells remaining session members that membership changed.
// It carries only the session ID; receivers re-query the membership list.
type RoomUpdateMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// ReceiveUpdateMessage is the live broadcast of another member's state.
type ReceiveUpdateMessage struct {
	Type  string          `json:"type"`
	State json.RawMessage `json:"state"`
}

// LastDataStateMessage is the one-shot replay of stored state to a new joiner.
type LastDataStateMessage struct {
	Type  string          `json:"type"`
	State json.RawMessage `json:"state"`
}

// RoomSocketsMessage is the reply to a GetRoomSocketsMessage. Sockets lists
// every member connection ID, including the requester's own.
type RoomSocketsMessage struct {
	Type      string   `json:"type"`
	RequestID string   `json:"request_id"`
	Success   bool     `json:"success"`
	Sockets   []string `json:"sockets,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// NewErrorMessage creates a new error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}

// NewRoomUpdateMessage creates a presence-changed notification for a session.
func NewRoomUpdateMessage(sessionID string) *RoomUpdateMessage {
	return &RoomUpdateMessage{
		Type: MsgTypeRoomUpdate,
		Room: sessionID,
	}
}
