/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/hiddenleader/games/hidden"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultRoomID = "default"

	// Room codes avoid characters that are easy to misread aloud.
	roomAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomIDLength = 5
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RoomSummary is what /debug/rooms reports for one room.
type RoomSummary struct {
	hidden.Summary
	Connections int       `json:"connections"`
	CreatedAt   time.Time `json:"created_at"`
	LastActive  time.Time `json:"last_active"`
}

// RoomManager holds a set of rooms keyed by room ID, so each /room/:roomid
// is its own isolated game. The default room backs /ws and is never reaped.
type RoomManager struct {
	mu    sync.Mutex
	rooms map[string]*Room

	idleTimeout time.Duration
	opts        hidden.Options
	chatRate    rate.Limit
	chatBurst   int
	log         *zap.Logger
}

func newRoomManager(cfg *Config, log *zap.Logger) *RoomManager {
	rm := &RoomManager{
		rooms:       make(map[string]*Room),
		idleTimeout: cfg.sessionTimeout,
		opts: hidden.Options{
			PhaseTimeout: cfg.phaseTimeout,
			KeepRoster:   cfg.keepRoster,
		},
		chatRate:  rate.Inf,
		chatBurst: cfg.chatBurst,
		log:       log,
	}

	if cfg.chatRate > 0 {
		rm.chatRate = rate.Limit(cfg.chatRate)
	}

	rm.mu.Lock()
	rm.addLocked(defaultRoomID)
	rm.mu.Unlock()

	return rm
}

func (rm *RoomManager) addLocked(id string) *Room {
	room := newRoom(id, rm.opts, rm.log)
	rm.rooms[id] = room
	go room.run()

	return room
}

func (rm *RoomManager) get(id string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[id]

	return room, ok
}

// create opens a room under a fresh crypto-random code that does not
// collide with any open room.
func (rm *RoomManager) create() *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for {
		id := newRoomID()
		if _, exists := rm.rooms[id]; exists {
			continue
		}

		return rm.addLocked(id)
	}
}

func newRoomID() string {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, roomIDLength)
	for i := range out {
		out[i] = roomAlphabet[int(buf[i])%len(roomAlphabet)]
	}

	return string(out)
}

// reapIdle closes every keyed room last active before cutoff and returns
// their IDs.
func (rm *RoomManager) reapIdle(cutoff time.Time) []string {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	var reaped []string
	for id, room := range rm.rooms {
		if id == defaultRoomID || !room.idleSince().Before(cutoff) {
			continue
		}

		delete(rm.rooms, id)
		go room.closeAll()
		reaped = append(reaped, id)
	}

	return reaped
}

// reap runs until ctx is done, closing rooms idle longer than the
// configured timeout.
func (rm *RoomManager) reap(ctx context.Context) error {
	if rm.idleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(rm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			for _, id := range rm.reapIdle(now.Add(-rm.idleTimeout)) {
				rm.log.Info("ROOMS: Closed idle room", zap.String("room", id))
			}
		}
	}
}

func (rm *RoomManager) closeAll() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for id, room := range rm.rooms {
		room.closeAll()
		delete(rm.rooms, id)
	}
}

func (rm *RoomManager) summaries() []RoomSummary {
	rm.mu.Lock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		room.mu.RLock()
		s := RoomSummary{
			Connections: len(room.clients),
			CreatedAt:   room.createdAt,
			LastActive:  room.lastActive,
		}
		room.mu.RUnlock()

		s.Summary = room.session.Summary()
		out = append(out, s)
	}

	slices.SortFunc(out, func(a, b RoomSummary) int {
		return strings.Compare(a.ID, b.ID)
	})

	return out
}

func (rm *RoomManager) serve(room *Room, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		rm.log.Debug("ROOMS: Upgrade failed", zap.String("client", realIP(r)), zap.Error(err))
		return
	}

	client := &Client{
		conn:    conn,
		send:    make(chan any, sendBuffer),
		connID:  uuid.NewString(),
		limiter: rate.NewLimiter(rm.chatRate, rm.chatBurst),
	}

	rm.log.Debug("SERVE: WebSocket",
		zap.String("room", room.id),
		zap.String("conn", client.connID),
		zap.String("client", realIP(r)),
	)

	room.join(client)
}

func serveDefaultWS(rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		room, ok := rm.get(defaultRoomID)
		if !ok {
			http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
			return
		}

		rm.serve(room, w, r)
	}
}

func roomParam(ps httprouter.Params) string {
	return strings.ToUpper(strings.TrimSpace(ps.ByName("roomid")))
}

// WebSocket handler that picks the room based on :roomid
func serveRoomWS(rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, ok := rm.get(roomParam(ps))
		if !ok {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}

		rm.serve(room, w, r)
	}
}

func serveRoomInfo(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := roomParam(ps)

		room, ok := rm.get(id)
		if !ok {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		summary := room.session.Summary()

		_, _ = fmt.Fprintf(w, "Room %s\nPlayers: %d\nPhase: %s\nConnect: %s\n",
			id, summary.Players, summary.Phase, wsURL(r, cfg.prefix+"/room/"+id+"/ws"))
	}
}

// redirectNewRoom handles GET /room by opening a room under a new code and
// redirecting to /room/:roomid.
func redirectNewRoom(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		room := rm.create()
		rm.log.Info("ROOMS: Created room", zap.String("room", room.id), zap.String("client", realIP(r)))
		http.Redirect(w, r, cfg.prefix+"/room/"+room.id, http.StatusTemporaryRedirect)
	}
}

// requestScheme respects TLS and X-Forwarded-Proto if present.
func requestScheme(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme
}

func wsURL(r *http.Request, path string) string {
	if requestScheme(r) == "https" {
		return "wss://" + r.Host + path
	}

	return "ws://" + r.Host + path
}

// qrHandler generates a PNG QR code for the room URL using go-qrcode.
func qrHandler(rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, ok := rm.get(roomParam(ps)); !ok {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}

		url := requestScheme(r) + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

func registerRooms(cfg *Config, rm *RoomManager, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/ws", serveDefaultWS(rm))

	mux.GET(cfg.prefix+"/room", redirectNewRoom(cfg, rm))
	mux.GET(cfg.prefix+"/room/:roomid", serveRoomInfo(cfg, rm))
	mux.GET(cfg.prefix+"/room/:roomid/ws", serveRoomWS(rm))
	mux.GET(cfg.prefix+"/room/:roomid/qr", qrHandler(rm))
}
