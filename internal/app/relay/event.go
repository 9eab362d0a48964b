/*
Package relay contains the core logic of the message relay.

This file defines the wire-level event envelope and every inbound/outbound payload
exchanged with clients over the WebSocket connection.
*/
package relay

import "encoding/json"

// EventType identifies the kind of an event envelope.
type EventType string

// Inbound event types (client -> server).
const (
	TypeJoin             EventType = "join"
	TypeBroadcastMessage EventType = "broadcast-message"
	TypePrivateMessage   EventType = "private-message"
	TypeCreateGroup      EventType = "create-group"
	TypeGroupMessage     EventType = "group-message"
	TypePrivateFile      EventType = "private-file"
	TypeGroupFile        EventType = "group-file"
	TypeGetOnlineList    EventType = "get-online-list"
)

// Outbound event types (server -> client).
const (
	TypeOnlineList       EventType = "online-list"
	TypeUserJoined       EventType = "user-joined"
	TypeUserLeft         EventType = "user-left"
	TypeReceive          EventType = "receive"
	TypeReceivePrivate   EventType = "receive-private"
	TypeReceiveGroup     EventType = "receive-group"
	TypeReceiveFile      EventType = "receive-file"
	TypeReceiveGroupFile EventType = "receive-group-file"
	TypeGroupList        EventType = "group-list"
)

// SystemSender is the display name attached to server-generated group notices.
const SystemSender = "System"

// Event is the JSON envelope carried in both directions on the wire.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeEvent marshals the payload and wraps it in an Event envelope, returning
// the envelope bytes ready for fan-out. The router encodes each outbound event
// exactly once, regardless of how many connections it targets.
func EncodeEvent(eventType EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:    eventType,
		Payload: payloadBytes,
	})
}

// Inbound payloads.

// JoinPayload announces the sender's display name.
type JoinPayload struct {
	Name string `json:"name"`
}

// BroadcastMessagePayload carries a public text message for everyone else.
type BroadcastMessagePayload struct {
	Message string `json:"message"`
}

// PrivateMessagePayload carries a text message for a single recipient.
type PrivateMessagePayload struct {
	To      ConnID `json:"to"`
	Message string `json:"message"`
}

// CreateGroupPayload creates (or extends) a named group with the given members.
type CreateGroupPayload struct {
	GroupName string   `json:"groupName"`
	Members   []ConnID `json:"members"`
}

// GroupMessagePayload carries a text message for a named group.
type GroupMessagePayload struct {
	GroupName string `json:"groupName"`
	Message   string `json:"message"`
}

// PrivateFilePayload carries an opaque file blob for a single recipient.
type PrivateFilePayload struct {
	To       ConnID `json:"to"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileData string `json:"fileData"`
}

// GroupFilePayload carries an opaque file blob for a named group.
type GroupFilePayload struct {
	GroupName string `json:"groupName"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileData  string `json:"fileData"`
}

// Outbound payloads.

// OnlineListPayload is the current presence snapshot.
type OnlineListPayload struct {
	Users map[ConnID]string `json:"users"`
}

// UserJoinedPayload announces that a user came online.
type UserJoinedPayload struct {
	Name string `json:"name"`
}

// UserLeftPayload announces that a user went offline.
type UserLeftPayload struct {
	Name string `json:"name"`
}

// ReceivePayload delivers a public broadcast message.
type ReceivePayload struct {
	Message  string `json:"message"`
	FromName string `json:"fromName"`
}

// ReceivePrivatePayload delivers a private message, including the sender's raw
// connection identity so the recipient can reply.
type ReceivePrivatePayload struct {
	Message  string `json:"message"`
	FromName string `json:"fromName"`
	From     ConnID `json:"from"`
}

// ReceiveGroupPayload delivers a group message.
type ReceiveGroupPayload struct {
	Message   string `json:"message"`
	FromName  string `json:"fromName"`
	GroupName string `json:"groupName"`
}

// ReceiveFilePayload delivers a private file.
type ReceiveFilePayload struct {
	FromName string `json:"fromName"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileData string `json:"fileData"`
}

// ReceiveGroupFilePayload delivers a group file.
type ReceiveGroupFilePayload struct {
	FromName  string `json:"fromName"`
	GroupName string `json:"groupName"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileData  string `json:"fileData"`
}

// GroupListPayload is the current list of known group names.
type GroupListPayload struct {
	Groups []string `json:"groups"`
}
