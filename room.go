/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Seednode/hiddenleader/games/hidden"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	sendBuffer   = 64
	maxFrameSize = 4096
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// Client is one WebSocket connection. Its connID is the identity the game
// session knows it by.
type Client struct {
	conn    *websocket.Conn
	send    chan any
	connID  string
	limiter *rate.Limiter
}

type inbound struct {
	client *Client
	msg    hidden.ClientMessage
}

// Room pairs a game session with the connections playing it. A single
// goroutine (run) feeds the session, so events from one room are applied
// in arrival order.
type Room struct {
	id      string
	session *hidden.Session
	log     *zap.Logger

	register chan *Client
	unreg    chan *Client
	inbound  chan inbound
	done     chan struct{}
	stop     sync.Once

	mu         sync.RWMutex
	clients    map[string]*Client
	createdAt  time.Time
	lastActive time.Time
}

func newRoom(id string, opts hidden.Options, log *zap.Logger) *Room {
	now := time.Now()

	r := &Room{
		id:         id,
		log:        log.With(zap.String("room", id)),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		inbound:    make(chan inbound, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
		createdAt:  now,
		lastActive: now,
	}

	opts.Logger = log
	r.session = hidden.NewSession(id, r, opts)

	return r
}

func (r *Room) run() {
	for {
		select {
		case c := <-r.register:
			r.mu.Lock()
			r.clients[c.connID] = c
			r.lastActive = time.Now()
			r.mu.Unlock()

			r.log.Debug("ROOMS: Connection opened", zap.String("conn", c.connID))

		case c := <-r.unreg:
			r.mu.Lock()
			if _, ok := r.clients[c.connID]; ok {
				delete(r.clients, c.connID)
				close(c.send)
			}
			r.lastActive = time.Now()
			r.mu.Unlock()

			r.log.Debug("ROOMS: Connection closed", zap.String("conn", c.connID))

			r.session.Disconnect(c.connID)

		case in := <-r.inbound:
			r.touch()

			_ = r.session.Dispatch(in.client.connID, in.msg)

		case <-r.done:
			return
		}
	}
}

func (r *Room) touch() {
	r.mu.Lock()
	r.lastActive = time.Now()
	r.mu.Unlock()
}

func (r *Room) idleSince() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastActive
}

func (r *Room) connections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// deliver queues msg for c without blocking the session. A client too slow
// to drain its buffer loses the message.
func (r *Room) deliver(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		r.log.Warn("ROOMS: Send buffer full, dropping message", zap.String("conn", c.connID))
	}
}

// Send implements hidden.Notifier.
func (r *Room) Send(connID string, msg any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[connID]; ok {
		r.deliver(c, msg)
	}
}

// Broadcast implements hidden.Notifier.
func (r *Room) Broadcast(msg any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		r.deliver(c, msg)
	}
}

// closeAll stops the room loop and disconnects every client.
func (r *Room) closeAll() {
	r.stop.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(r.clients, id)
	}
}

// join hands a freshly upgraded connection to the room and blocks reading
// from it until it closes.
func (r *Room) join(c *Client) {
	select {
	case r.register <- c:
	case <-r.done:
		_ = c.conn.Close()
		return
	}

	go c.writePump(r.log)
	c.readPump(r)
}

func (c *Client) readPump(r *Room) {
	defer func() {
		select {
		case r.unreg <- c:
		case <-r.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.log.Debug("ROOMS: Read failed", zap.String("conn", c.connID), zap.Error(err))
			}
			return
		}

		if !c.limiter.Allow() {
			r.Send(c.connID, hidden.Reply(hidden.ErrRateLimited))
			continue
		}

		var msg hidden.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			r.Send(c.connID, hidden.Reply(hidden.ErrBadRequest))
			continue
		}

		select {
		case r.inbound <- inbound{client: c, msg: msg}:
		case <-r.done:
			return
		}
	}
}

func (c *Client) writePump(log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				log.Debug("ROOMS: Write failed", zap.String("conn", c.connID), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
