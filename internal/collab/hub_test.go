package collab

import "testing"

func drain(t *testing.T, ch <-chan Envelope) Envelope {
	t.Helper()
	select {
	case env := <-ch:
		return env
	default:
		t.Fatalf("expected an envelope, got none")
		return Envelope{}
	}
}

func TestJoinBroadcastsConnectedStatus(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	_, send := hub.Join(room, "c1")
	env := drain(t, send)
	if env.Kind != EnvelopeStatus || env.Status != StatusConnected {
		t.Fatalf("expected connected status, got %+v", env)
	}
}

func TestRejoinBroadcastsReconnectingThenConnected(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	hub.Join(room, "c1")
	_, send := hub.Join(room, "c1")

	first := drain(t, send)
	second := drain(t, send)
	if first.Status != StatusReconnecting || second.Status != StatusConnected {
		t.Fatalf("expected reconnecting then connected, got %+v then %+v", first, second)
	}
}

func TestUpdatePeerStateFansOutAggregateToOtherClients(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	_, sendA := hub.Join(room, "a")
	drain(t, sendA)
	_, sendB := hub.Join(room, "b")
	drain(t, sendB)
	drain(t, sendA)

	hub.UpdatePeerState(room, PeerState{ClientID: "a", UserID: "user-a"})

	env := drain(t, sendB)
	if env.Kind != EnvelopeAggregate || len(env.Peers) != 1 || env.Peers[0].UserID != "user-a" {
		t.Fatalf("expected aggregate with peer a, got %+v", env)
	}
}

func TestUpdatePeerStateIgnoresUnjoinedClient(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	hub.UpdatePeerState(room, PeerState{ClientID: "ghost", UserID: "nobody"})

	r := hub.room(room)
	if len(r.peers) != 0 {
		t.Fatalf("expected no peer state recorded for an unjoined client, got %+v", r.peers)
	}
}

func TestSetValidFalseExcludesPeerFromAggregateWithoutLeaving(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	_, sendA := hub.Join(room, "a")
	drain(t, sendA)
	_, sendB := hub.Join(room, "b")
	drain(t, sendB)
	drain(t, sendA)

	hub.UpdatePeerState(room, PeerState{ClientID: "a", UserID: "user-a"})
	drain(t, sendB)

	hub.SetValid(room, "a", false)
	env := drain(t, sendB)
	if env.Kind != EnvelopeAggregate || len(env.Peers) != 0 {
		t.Fatalf("expected invalid-token peer excluded from aggregate, got %+v", env.Peers)
	}

	r := hub.room(room)
	if _, ok := r.clients["a"]; !ok {
		t.Fatalf("expected socket for invalid-token client to remain registered")
	}
}

func TestLeaveBroadcastsDisconnectedAndDropsPeerState(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	hub.Join(room, "a")
	hub.UpdatePeerState(room, PeerState{ClientID: "a", UserID: "user-a"})
	hub.Leave(room, "a")

	r := hub.room(room)
	if _, ok := r.peers["a"]; ok {
		t.Fatalf("expected peer state removed on leave")
	}
	if _, ok := r.clients["a"]; ok {
		t.Fatalf("expected client removed on leave")
	}
}

func TestBroadcastClockIsMonotonicPerRoom(t *testing.T) {
	hub := NewHub()
	room := NewRoomID("app1", "board1")

	_, send := hub.Join(room, "a")
	first := drain(t, send)

	hub.Join(room, "b")
	second := drain(t, send)

	if second.Clock <= first.Clock {
		t.Fatalf("expected monotonically increasing clock, got %d then %d", first.Clock, second.Clock)
	}
}
