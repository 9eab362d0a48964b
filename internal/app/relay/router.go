/*
Package relay contains the core logic of the message relay.

This file defines the Router, the dispatcher that consumes decoded inbound events,
resolves fan-out targets through the Registry and GroupStore, applies the content
filter to user text, and delivers outbound events through the Hub.

Operations on unknown targets are absorbed silently: no error event goes back to
the sender when a recipient is offline or a group does not exist.
*/
package relay

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/manuav007/EchoFlow/internal/pkg/logx"
)

// MaxContentBytes is the maximum allowed size (in bytes) for text message content.
const MaxContentBytes = 5000

// Sanitizer redacts banned content from user-supplied text. It is applied to every
// text payload before fan-out; file payloads pass through untouched.
type Sanitizer func(text string) string

// Router dispatches inbound events. It holds no state of its own beyond references
// to the registry, group store, and hub.
type Router struct {
	registry *Registry
	groups   *GroupStore
	hub      *Hub
	sanitize Sanitizer

	logger zerolog.Logger
}

// NewRouter constructs a Router over the given collaborators.
func NewRouter(registry *Registry, groups *GroupStore, hub *Hub, sanitize Sanitizer) *Router {
	return &Router{
		registry: registry,
		groups:   groups,
		hub:      hub,
		sanitize: sanitize,
		logger:   logx.Logger().With().Str("component", "Router").Logger(),
	}
}

// HandleRaw decodes one inbound envelope from sender and dispatches it by event
// type. A malformed envelope or payload is logged and dropped; it never closes
// the connection or affects other connections.
func (rt *Router) HandleRaw(sender ConnID, raw []byte) {
	var envelope Event
	if err := json.Unmarshal(raw, &envelope); err != nil {
		rt.logger.Warn().
			Str("conn_id", string(sender)).
			Err(err).
			Msg("Dropping event with invalid JSON envelope.")
		return
	}

	switch envelope.Type {
	case TypeJoin:
		var p JoinPayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandleJoin(sender, p.Name)

	case TypeBroadcastMessage:
		var p BroadcastMessagePayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandleBroadcastMessage(sender, p.Message)

	case TypePrivateMessage:
		var p PrivateMessagePayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandlePrivateMessage(sender, p.To, p.Message)

	case TypeCreateGroup:
		var p CreateGroupPayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandleCreateGroup(sender, p.GroupName, p.Members)

	case TypeGroupMessage:
		var p GroupMessagePayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandleGroupMessage(sender, p.GroupName, p.Message)

	case TypePrivateFile:
		var p PrivateFilePayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandlePrivateFile(sender, p)

	case TypeGroupFile:
		var p GroupFilePayload
		if !rt.decodePayload(sender, envelope, &p) {
			return
		}
		rt.HandleGroupFile(sender, p)

	case TypeGetOnlineList:
		rt.HandleOnlineListRequest(sender)

	default:
		rt.logger.Warn().
			Str("conn_id", string(sender)).
			Str("event_type", string(envelope.Type)).
			Msg("Dropping event of unsupported type.")
	}
}

// decodePayload unmarshals the envelope payload into dst, logging and reporting
// failure so the caller can drop the event.
func (rt *Router) decodePayload(sender ConnID, envelope Event, dst any) bool {
	if err := json.Unmarshal(envelope.Payload, dst); err != nil {
		rt.logger.Warn().
			Str("conn_id", string(sender)).
			Str("event_type", string(envelope.Type)).
			Err(err).
			Msg("Dropping event with invalid payload.")
		return false
	}
	return true
}

// HandleJoin registers the sender's presence and announces it: "user-joined" goes
// to everyone except the sender, the refreshed online list goes to everyone.
func (rt *Router) HandleJoin(sender ConnID, name string) {
	rt.registry.Join(sender, name)

	rt.logger.Info().
		Str("conn_id", string(sender)).
		Str("name", name).
		Msg("User joined.")

	rt.broadcastEvent(TypeUserJoined, UserJoinedPayload{Name: name}, sender)
	rt.broadcastOnlineList()
}

// HandleBroadcastMessage fans a sanitized public message out to every connection
// except the sender.
func (rt *Router) HandleBroadcastMessage(sender ConnID, text string) {
	if !rt.textWithinLimit(sender, text) {
		return
	}

	fromName, _ := rt.registry.NameOf(sender)

	rt.broadcastEvent(TypeReceive, ReceivePayload{
		Message:  rt.sanitize(text),
		FromName: fromName,
	}, sender)
}

// HandlePrivateMessage delivers a sanitized text message to a single recipient.
// An offline or unknown recipient is dropped silently.
func (rt *Router) HandlePrivateMessage(sender ConnID, to ConnID, text string) {
	if !rt.textWithinLimit(sender, text) {
		return
	}

	fromName, _ := rt.registry.NameOf(sender)

	payload := ReceivePrivatePayload{
		Message:  rt.sanitize(text),
		FromName: fromName,
		From:     sender,
	}

	rt.sendEvent(to, TypeReceivePrivate, payload)
}

// HandleCreateGroup creates or extends the named group with the currently live
// subset of the requested members, notifies each added live member with a system
// notice, and broadcasts the refreshed group list to everyone.
func (rt *Router) HandleCreateGroup(sender ConnID, groupName string, members []ConnID) {
	if groupName == "" {
		rt.logger.Warn().
			Str("conn_id", string(sender)).
			Msg("Dropping create-group with empty group name.")
		return
	}

	live := lo.Filter(members, func(id ConnID, _ int) bool {
		return rt.hub.Registered(id)
	})

	rt.groups.AddMembers(groupName, live)

	rt.logger.Info().
		Str("conn_id", string(sender)).
		Str("group", groupName).
		Int("members", len(live)).
		Msg("Group created or extended.")

	notice := ReceiveGroupPayload{
		Message:   "You have been added to group \"" + groupName + "\"",
		FromName:  SystemSender,
		GroupName: groupName,
	}
	for _, id := range live {
		rt.sendEvent(id, TypeReceiveGroup, notice)
	}

	rt.broadcastEvent(TypeGroupList, GroupListPayload{Groups: rt.groups.AllGroupNames()}, "")
}

// HandleGroupMessage fans a sanitized text message out to the group roster,
// excluding the sender. Dead roster entries are skipped silently; an unknown
// group resolves to no targets.
func (rt *Router) HandleGroupMessage(sender ConnID, groupName string, text string) {
	if !rt.textWithinLimit(sender, text) {
		return
	}

	fromName, _ := rt.registry.NameOf(sender)

	payload := ReceiveGroupPayload{
		Message:   rt.sanitize(text),
		FromName:  fromName,
		GroupName: groupName,
	}

	for _, id := range rt.groups.MembersExcept(groupName, sender) {
		rt.sendEvent(id, TypeReceiveGroup, payload)
	}
}

// HandlePrivateFile delivers an opaque file blob to a single recipient.
// The content filter does not apply to file payloads.
func (rt *Router) HandlePrivateFile(sender ConnID, file PrivateFilePayload) {
	fromName, _ := rt.registry.NameOf(sender)

	rt.sendEvent(file.To, TypeReceiveFile, ReceiveFilePayload{
		FromName: fromName,
		FileName: file.FileName,
		FileType: file.FileType,
		FileData: file.FileData,
	})
}

// HandleGroupFile delivers an opaque file blob to the group roster, excluding
// the sender. The content filter does not apply to file payloads.
func (rt *Router) HandleGroupFile(sender ConnID, file GroupFilePayload) {
	fromName, _ := rt.registry.NameOf(sender)

	payload := ReceiveGroupFilePayload{
		FromName:  fromName,
		GroupName: file.GroupName,
		FileName:  file.FileName,
		FileType:  file.FileType,
		FileData:  file.FileData,
	}

	for _, id := range rt.groups.MembersExcept(file.GroupName, sender) {
		rt.sendEvent(id, TypeReceiveGroupFile, payload)
	}
}

// HandleOnlineListRequest sends the current presence snapshot to the sender only.
func (rt *Router) HandleOnlineListRequest(sender ConnID) {
	rt.sendEvent(sender, TypeOnlineList, OnlineListPayload{Users: rt.registry.ListOnline()})
}

// HandleDisconnect applies the three disconnect effects in an order that
// guarantees no Send started after this point can still reach the departing
// identity: hub unregister first, then presence removal, then group purge.
// The "user-left" notice and refreshed online list go to everyone remaining.
func (rt *Router) HandleDisconnect(sender ConnID) {
	rt.hub.Unregister(sender)

	name, joined := rt.registry.Leave(sender)
	rt.groups.RemoveConnection(sender)

	rt.logger.Info().
		Str("conn_id", string(sender)).
		Str("name", name).
		Msg("Connection disconnected.")

	if joined {
		rt.broadcastEvent(TypeUserLeft, UserLeftPayload{Name: name}, "")
	}

	rt.broadcastOnlineList()
}

// broadcastOnlineList pushes the current presence snapshot to every connection.
func (rt *Router) broadcastOnlineList() {
	rt.broadcastEvent(TypeOnlineList, OnlineListPayload{Users: rt.registry.ListOnline()}, "")
}

// textWithinLimit enforces the text size cap. Oversize events are logged and
// dropped without closing the connection.
func (rt *Router) textWithinLimit(sender ConnID, text string) bool {
	if len(text) > MaxContentBytes {
		rt.logger.Warn().
			Str("conn_id", string(sender)).
			Int("content_bytes", len(text)).
			Msg("Dropping text event above content size limit.")
		return false
	}
	return true
}

// sendEvent encodes one event and queues it for a single target. An undelivered
// event (unknown target, full queue) is absorbed silently per routing policy.
func (rt *Router) sendEvent(target ConnID, eventType EventType, payload any) {
	raw, err := EncodeEvent(eventType, payload)
	if err != nil {
		rt.logger.Error().
			Str("event_type", string(eventType)).
			Err(err).
			Msg("Failed to encode outbound event.")
		return
	}

	if !rt.hub.Send(target, raw) {
		rt.logger.Debug().
			Str("conn_id", string(target)).
			Str("event_type", string(eventType)).
			Msg("Outbound event not delivered (target offline).")
	}
}

// broadcastEvent encodes one event and queues it for every connection except the
// excluded one (empty ConnID excludes nobody).
func (rt *Router) broadcastEvent(eventType EventType, payload any, excluded ConnID) {
	raw, err := EncodeEvent(eventType, payload)
	if err != nil {
		rt.logger.Error().
			Str("event_type", string(eventType)).
			Err(err).
			Msg("Failed to encode broadcast event.")
		return
	}

	rt.hub.Broadcast(raw, excluded)
}
