/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *RoomManager {
	t.Helper()

	cfg := validConfig()
	rm := newRoomManager(&cfg, zap.NewNop())
	t.Cleanup(rm.closeAll)

	return rm
}

func TestNewRoomID(t *testing.T) {
	seen := map[string]bool{}

	for range 200 {
		id := newRoomID()
		if len(id) != roomIDLength {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		for _, r := range id {
			if !strings.ContainsRune(roomAlphabet, r) {
				t.Fatalf("id %q contains %q", id, r)
			}
		}
		seen[id] = true
	}

	if len(seen) < 190 {
		t.Fatalf("only %d distinct ids in 200", len(seen))
	}
}

func TestRoomManager_CreateAndGet(t *testing.T) {
	rm := newTestManager(t)

	if _, ok := rm.get(defaultRoomID); !ok {
		t.Fatalf("default room missing")
	}

	room := rm.create()

	got, ok := rm.get(room.id)
	if !ok || got != room {
		t.Fatalf("created room %s not found", room.id)
	}
	if _, ok := rm.get("NOPE1"); ok {
		t.Fatalf("unknown room found")
	}

	if got := len(rm.summaries()); got != 2 {
		t.Fatalf("summaries = %d, want 2", got)
	}
}

func TestRoomManager_ReapIdle(t *testing.T) {
	rm := newTestManager(t)

	stale := rm.create()
	fresh := rm.create()

	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	rm.mu.Lock()
	def := rm.rooms[defaultRoomID]
	rm.mu.Unlock()

	def.mu.Lock()
	def.lastActive = time.Now().Add(-2 * time.Hour)
	def.mu.Unlock()

	reaped := rm.reapIdle(time.Now().Add(-time.Hour))

	if len(reaped) != 1 || reaped[0] != stale.id {
		t.Fatalf("reaped = %v, want [%s]", reaped, stale.id)
	}
	if _, ok := rm.get(stale.id); ok {
		t.Errorf("stale room still open")
	}
	if _, ok := rm.get(fresh.id); !ok {
		t.Errorf("fresh room reaped")
	}
	if _, ok := rm.get(defaultRoomID); !ok {
		t.Errorf("default room reaped")
	}
}

func TestRoom_NotifierSkipsUnknownConnections(t *testing.T) {
	rm := newTestManager(t)
	room := rm.create()

	c := &Client{connID: "known", send: make(chan any, 1)}

	room.mu.Lock()
	room.clients[c.connID] = c
	room.mu.Unlock()

	room.Send("unknown", "ignored")
	room.Send("known", "first")
	room.Broadcast("dropped")

	if got := <-c.send; got != "first" {
		t.Fatalf("received %v, want first", got)
	}

	select {
	case extra := <-c.send:
		t.Fatalf("full buffer still delivered %v", extra)
	default:
	}

	// c has no socket for closeAll to shut.
	room.mu.Lock()
	delete(room.clients, c.connID)
	room.mu.Unlock()
}
