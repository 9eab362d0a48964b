package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/manuav007/EchoFlow/internal/app/filter"
)

// testRig bundles the relay core with helpers to attach fake connections and
// inspect what the hub delivered to each of them.
type testRig struct {
	registry *Registry
	groups   *GroupStore
	hub      *Hub
	router   *Router
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	registry := NewRegistry()
	groups := NewGroupStore()
	hub := NewHub()
	router := NewRouter(registry, groups, hub, filter.New(filter.DefaultTerms).Sanitize)

	return &testRig{
		registry: registry,
		groups:   groups,
		hub:      hub,
		router:   router,
	}
}

// connect registers a fake connection and returns its delivery queue.
func (r *testRig) connect(id ConnID) chan []byte {
	send := make(chan []byte, 32)
	r.hub.Register(id, send)
	return send
}

// join connects id, runs the join flow, and drains the resulting presence
// events from every given queue so tests start from a quiet state.
func (r *testRig) join(id ConnID, name string, drainAlso ...chan []byte) chan []byte {
	send := r.connect(id)
	r.router.HandleJoin(id, name)

	drain(send)
	for _, ch := range drainAlso {
		drain(ch)
	}
	return send
}

func drain(ch chan []byte) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// nextEvent pops one delivered event from the queue and decodes its payload into T.
func nextEvent[T any](t *testing.T, ch chan []byte, wantType EventType) T {
	t.Helper()

	var raw []byte
	select {
	case raw = <-ch:
	default:
		t.Fatalf("expected a %s event, queue is empty", wantType)
	}

	var envelope Event
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, wantType, envelope.Type)

	var payload T
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	return payload
}

func requireNoEvent(t *testing.T, ch chan []byte) {
	t.Helper()

	select {
	case raw := <-ch:
		t.Fatalf("expected no event, got %s", raw)
	default:
	}
}

func TestRouter_JoinAnnouncesAndRefreshesOnlineList(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.connect("a")
	rig.router.HandleJoin("a", "alice")

	// The joiner gets the refreshed online list but not its own user-joined notice.
	online := nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
	req.Equal(map[ConnID]string{"a": "alice"}, online.Users)
	requireNoEvent(t, sendA)

	sendB := rig.connect("b")
	rig.router.HandleJoin("b", "bob")

	joined := nextEvent[UserJoinedPayload](t, sendA, TypeUserJoined)
	req.Equal("bob", joined.Name)

	online = nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
	req.Equal(map[ConnID]string{"a": "alice", "b": "bob"}, online.Users)

	online = nextEvent[OnlineListPayload](t, sendB, TypeOnlineList)
	req.Len(online.Users, 2)
	requireNoEvent(t, sendB)
}

func TestRouter_PrivateMessageDeliveredToRecipientOnly(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)
	drain(sendA)

	rig.router.HandlePrivateMessage("a", "b", "hi")

	got := nextEvent[ReceivePrivatePayload](t, sendB, TypeReceivePrivate)
	req.Equal("hi", got.Message)
	req.Equal("alice", got.FromName)
	req.Equal(ConnID("a"), got.From)

	// No self-echo at the protocol layer.
	requireNoEvent(t, sendA)
}

func TestRouter_PrivateMessageToUnknownTargetIsDroppedSilently(t *testing.T) {
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")

	rig.router.HandlePrivateMessage("a", "never-joined", "hello?")

	// No delivery, no error event back to the sender.
	requireNoEvent(t, sendA)
}

func TestRouter_PrivateMessageIsSanitized(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)

	rig.router.HandlePrivateMessage("a", "b", "I sell heroin now")

	got := nextEvent[ReceivePrivatePayload](t, sendB, TypeReceivePrivate)
	req.Equal("I sell ****** now", got.Message)
}

func TestRouter_BroadcastMessageReachesEveryoneExceptSender(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)
	sendC := rig.join("c", "carol", sendA, sendB)

	rig.router.HandleBroadcastMessage("a", "hello all")

	for _, ch := range []chan []byte{sendB, sendC} {
		got := nextEvent[ReceivePayload](t, ch, TypeReceive)
		req.Equal("hello all", got.Message)
		req.Equal("alice", got.FromName)
	}
	requireNoEvent(t, sendA)
}

func TestRouter_CreateGroupNotifiesLiveMembersAndBroadcastsGroupList(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)
	drain(sendA)

	rig.router.HandleCreateGroup("a", "team", []ConnID{"a", "b", "not-connected"})

	// Dead identities never make it into the roster.
	req.Equal([]ConnID{"a", "b"}, rig.groups.Members("team"))

	for _, ch := range []chan []byte{sendA, sendB} {
		notice := nextEvent[ReceiveGroupPayload](t, ch, TypeReceiveGroup)
		req.Equal(SystemSender, notice.FromName)
		req.Equal("team", notice.GroupName)
		req.Contains(notice.Message, "team")

		list := nextEvent[GroupListPayload](t, ch, TypeGroupList)
		req.Equal([]string{"team"}, list.Groups)
	}
}

func TestRouter_DuplicateCreateGroupIsAdditive(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)
	drain(sendA)

	rig.router.HandleCreateGroup("a", "team", []ConnID{"a"})
	rig.router.HandleCreateGroup("b", "team", []ConnID{"b"})

	req.Equal([]ConnID{"a", "b"}, rig.groups.Members("team"))
	drain(sendA)
	drain(sendB)
}

func TestRouter_GroupMessageFansOutToRosterExceptSender(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)
	sendC := rig.join("c", "carol", sendA, sendB)

	rig.router.HandleCreateGroup("a", "team", []ConnID{"a", "b"})
	drain(sendA)
	drain(sendB)
	drain(sendC)

	rig.router.HandleGroupMessage("a", "team", "status?")

	got := nextEvent[ReceiveGroupPayload](t, sendB, TypeReceiveGroup)
	req.Equal("status?", got.Message)
	req.Equal("alice", got.FromName)
	req.Equal("team", got.GroupName)

	requireNoEvent(t, sendA)
	requireNoEvent(t, sendC)
}

func TestRouter_GroupMessageToUnknownGroupIsDroppedSilently(t *testing.T) {
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")

	rig.router.HandleGroupMessage("a", "no-such-group", "anyone?")

	requireNoEvent(t, sendA)
}

func TestRouter_GroupMessageSkipsDisconnectedMember(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	rig.join("b", "bob", sendA)

	rig.router.HandleCreateGroup("a", "team", []ConnID{"a", "b"})
	rig.router.HandleDisconnect("b")
	drain(sendA)

	rig.router.HandleGroupMessage("a", "team", "status?")

	// Eager purge: b is gone from the roster and nothing was delivered anywhere.
	req.Equal([]ConnID{"a"}, rig.groups.Members("team"))
	requireNoEvent(t, sendA)
}

func TestRouter_FilePayloadsAreNotFiltered(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)

	rig.router.HandlePrivateFile("a", PrivateFilePayload{
		To:       "b",
		FileName: "heroin.txt",
		FileType: "text/plain",
		FileData: "heroin drugs weapons",
	})

	got := nextEvent[ReceiveFilePayload](t, sendB, TypeReceiveFile)
	req.Equal("alice", got.FromName)
	req.Equal("heroin.txt", got.FileName)
	req.Equal("text/plain", got.FileType)
	req.Equal("heroin drugs weapons", got.FileData)
}

func TestRouter_GroupFileFansOut(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)

	rig.router.HandleCreateGroup("a", "team", []ConnID{"a", "b"})
	drain(sendA)
	drain(sendB)

	rig.router.HandleGroupFile("a", GroupFilePayload{
		GroupName: "team",
		FileName:  "notes.pdf",
		FileType:  "application/pdf",
		FileData:  "ZGF0YQ==",
	})

	got := nextEvent[ReceiveGroupFilePayload](t, sendB, TypeReceiveGroupFile)
	req.Equal("team", got.GroupName)
	req.Equal("notes.pdf", got.FileName)
	req.Equal("ZGF0YQ==", got.FileData)
	requireNoEvent(t, sendA)
}

func TestRouter_OnlineListRequestGoesToSenderOnly(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)
	drain(sendA)

	rig.router.HandleOnlineListRequest("a")

	online := nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
	req.Equal(map[ConnID]string{"a": "alice", "b": "bob"}, online.Users)
	requireNoEvent(t, sendB)
}

func TestRouter_DisconnectBroadcastsDepartureAndCleansUp(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	rig.join("b", "bob", sendA)
	rig.router.HandleCreateGroup("b", "team", []ConnID{"a", "b"})
	drain(sendA)

	rig.router.HandleDisconnect("b")

	left := nextEvent[UserLeftPayload](t, sendA, TypeUserLeft)
	req.Equal("bob", left.Name)

	online := nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
	req.Equal(map[ConnID]string{"a": "alice"}, online.Users)

	req.False(rig.hub.Registered("b"))
	_, stillPresent := rig.registry.NameOf("b")
	req.False(stillPresent)
	req.Equal([]ConnID{"a"}, rig.groups.Members("team"))

	// A second disconnect is a no-op with no user-left broadcast.
	rig.router.HandleDisconnect("b")
	online = nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
	req.Len(online.Users, 1)
	requireNoEvent(t, sendA)
}

func TestRouter_DisconnectBeforeJoinSkipsUserLeft(t *testing.T) {
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	rig.connect("never-joined")

	rig.router.HandleDisconnect("never-joined")

	// Online list still refreshes, but no user-left for a connection with no presence.
	nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
	requireNoEvent(t, sendA)
}

func TestRouter_HandleRawDispatchesJoin(t *testing.T) {
	req := require.New(t)
	rig := newTestRig(t)

	sendA := rig.connect("a")

	raw, err := EncodeEvent(TypeJoin, JoinPayload{Name: "alice"})
	req.NoError(err)
	rig.router.HandleRaw("a", raw)

	name, ok := rig.registry.NameOf("a")
	req.True(ok)
	req.Equal("alice", name)
	nextEvent[OnlineListPayload](t, sendA, TypeOnlineList)
}

func TestRouter_HandleRawDropsMalformedEvents(t *testing.T) {
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")

	rig.router.HandleRaw("a", []byte("{not json"))
	rig.router.HandleRaw("a", []byte(`{"type":"private-message","payload":"not-an-object"}`))
	rig.router.HandleRaw("a", []byte(`{"type":"warp-drive","payload":{}}`))

	// Malformed input never produces output or tears anything down.
	requireNoEvent(t, sendA)
	if !rig.hub.Registered("a") {
		t.Fatal("connection should survive malformed events")
	}
}

func TestRouter_OversizeTextIsDropped(t *testing.T) {
	rig := newTestRig(t)

	sendA := rig.join("a", "alice")
	sendB := rig.join("b", "bob", sendA)

	huge := make([]byte, MaxContentBytes+1)
	for i := range huge {
		huge[i] = 'x'
	}

	rig.router.HandlePrivateMessage("a", "b", string(huge))

	requireNoEvent(t, sendB)
	requireNoEvent(t, sendA)
}
