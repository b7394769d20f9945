/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package hidden implements the hidden-role election game: role
// assignment, the nomination/vote/legislative round, presidential powers
// and win evaluation for a single room.
//
// A Session is safe for concurrent use. Every exported method runs under
// the session's mutex, and all outbound traffic goes through the Notifier
// supplied at construction, while that mutex is held. Notifier
// implementations must therefore never call back into the Session.
package hidden

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers outbound messages to participants.
type Notifier interface {
	// Send delivers msg to a single connection.
	Send(connID string, msg any)
	// Broadcast delivers msg to every connection in the room.
	Broadcast(msg any)
}

// TimerFunc schedules f after d and returns a function that cancels it.
type TimerFunc func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type Options struct {
	// Shuffle permutes the deck and the role draw. Defaults to math/rand/v2.
	Shuffle ShuffleFunc

	// PhaseTimeout, when positive, resets an active game to the lobby if
	// any single phase waits longer than this. Zero waits forever.
	PhaseTimeout time.Duration

	// AfterFunc schedules phase deadlines. Defaults to time.AfterFunc.
	AfterFunc TimerFunc

	// KeepRoster preserves the roster after a game ends instead of
	// clearing it.
	KeepRoster bool

	Logger *zap.Logger
}

// Summary is a point-in-time view of a session for diagnostics.
type Summary struct {
	ID      string  `json:"id"`
	Phase   Phase   `json:"phase"`
	Active  bool    `json:"active"`
	Players int     `json:"players"`
	Enacted Enacted `json:"enacted"`
	Tracker int     `json:"tracker"`
}

// Session is the aggregate root for one room's game.
type Session struct {
	id     string
	notify Notifier
	opts   Options
	log    *zap.Logger

	mu sync.Mutex

	players           []*Player
	presidentialIndex int
	deck              *Deck
	enacted           Enacted
	phase             Phase
	active            bool

	president     *Player
	vicePresident *Player
	votes         map[string]bool
	tracker       int

	lastPresidentName     string
	lastVicePresidentName string

	// hand holds the officer's cards during a legislative session:
	// three for the president, then the two forwarded to the vice
	// president.
	hand       []Policy
	vetoDenied bool

	generation uint64
	stopTimer  func() bool
}

func NewSession(id string, notify Notifier, opts Options) *Session {
	if opts.Shuffle == nil {
		opts.Shuffle = defaultShuffle
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = afterFunc
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Session{
		id:     id,
		notify: notify,
		opts:   opts,
		log:    opts.Logger.With(zap.String("room", id)),
		phase:  PhaseLobby,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Summary{
		ID:      s.id,
		Phase:   s.phase,
		Active:  s.active,
		Players: len(s.players),
		Enacted: s.enacted,
		Tracker: s.tracker,
	}
}

// Join adds a connection to the lobby under name.
func (s *Session) Join(connID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameEmpty
	}
	if s.active {
		return ErrLobbyClosed
	}
	if s.byConn(connID) != nil {
		return ErrAlreadyJoined
	}
	if len(s.players) >= MaxPlayers {
		return ErrRosterFull
	}
	if s.byName(name) != nil {
		return ErrNameTaken
	}

	s.players = append(s.players, &Player{
		ConnID:  connID,
		Name:    name,
		Role:    RoleUnassigned,
		Faction: FactionLoyalist,
		Alive:   true,
	})

	s.log.Info("GAMES: Player joined", zap.String("name", name), zap.Int("players", len(s.players)))

	s.notify.Send(connID, JoinedMessage{Type: TypeJoined, Name: name, Room: s.id})
	s.broadcastPlayers()
	s.systemChat(name + " has joined.")

	return nil
}

// Start assigns roles and opens the first round.
func (s *Session) Start(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byConn(connID) == nil {
		return ErrNotPlayer
	}
	if s.active {
		return ErrWrongPhase
	}

	reveals, err := AssignRoles(s.players, s.opts.Shuffle)
	if err != nil {
		return err
	}

	s.active = true
	s.deck = NewDeck(s.opts.Shuffle)
	s.enacted = Enacted{}
	s.tracker = 0
	s.presidentialIndex = 0
	s.lastPresidentName = ""
	s.lastVicePresidentName = ""

	for _, r := range reveals {
		s.notify.Send(r.ConnID, r.Message)
	}

	s.log.Info("GAMES: Game started", zap.Int("players", len(s.players)))

	s.notify.Broadcast(GameStartedMessage{Type: TypeGameStarted, Players: len(s.players)})
	s.startNewRound()

	return nil
}

// Chat relays text from a joined player to the room.
func (s *Session) Chat(connID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byConn(connID)
	if p == nil {
		return ErrNotPlayer
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	const maxChat = 500
	if r := []rune(text); len(r) > maxChat {
		text = string(r[:maxChat])
	}

	s.notify.Broadcast(ChatMessage{Type: TypeChat, User: p.Name, Text: text})

	return nil
}

// Disconnect removes a connection from the roster. Losing a player while
// a game is active sends everyone back to the lobby.
func (s *Session) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	leaver := s.players[idx]
	s.players = append(s.players[:idx], s.players[idx+1:]...)

	s.log.Info("GAMES: Player left", zap.String("name", leaver.Name), zap.Bool("active", s.active))

	if s.active {
		s.resetToLobby()
		s.notify.Broadcast(ResetToLobbyMessage{
			Type:    TypeResetToLobby,
			Message: leaver.Name + " left. Game terminated.",
		})
	}

	s.broadcastPlayers()
	s.systemChat(leaver.Name + " has left.")

	if len(s.players) == 0 {
		s.resetToLobby()
	}
}

// expire resets an active game whose phase outlived its deadline.
func (s *Session) expire(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || generation != s.generation {
		return
	}

	s.log.Warn("GAMES: Phase timed out", zap.String("phase", string(s.phase)))

	s.resetToLobby()
	s.notify.Broadcast(ResetToLobbyMessage{
		Type:    TypeResetToLobby,
		Message: "Nobody acted in time. Game terminated.",
	})
	s.broadcastPlayers()
}

// setPhase moves to p and re-arms the phase deadline.
func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.generation++

	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}

	if !s.active || s.opts.PhaseTimeout <= 0 {
		return
	}

	gen := s.generation
	s.stopTimer = s.opts.AfterFunc(s.opts.PhaseTimeout, func() {
		s.expire(gen)
	})
}

func (s *Session) resetToLobby() {
	s.active = false
	s.deck = nil
	s.enacted = Enacted{}
	s.tracker = 0
	s.presidentialIndex = 0
	s.president = nil
	s.vicePresident = nil
	s.votes = nil
	s.hand = nil
	s.vetoDenied = false
	s.lastPresidentName = ""
	s.lastVicePresidentName = ""

	for _, p := range s.players {
		p.Role = RoleUnassigned
		p.Faction = FactionLoyalist
		p.Alive = true
	}

	s.setPhase(PhaseLobby)
}

// endGame announces the outcome and returns the room to the lobby.
func (s *Session) endGame(o Outcome) {
	roles := make([]RoleSummary, 0, len(s.players))
	for _, p := range s.players {
		roles = append(roles, RoleSummary{Name: p.Name, Role: p.Role})
	}

	s.log.Info("GAMES: Game over",
		zap.String("winner", string(o.Winner)),
		zap.String("reason", o.Reason),
		zap.Int("tradition", s.enacted.Tradition),
		zap.Int("construction", s.enacted.Construction),
	)

	s.notify.Broadcast(GameOverMessage{
		Type:   TypeGameOver,
		Winner: o.Winner,
		Reason: o.Reason,
		Roles:  roles,
	})

	if !s.opts.KeepRoster {
		s.players = nil
	}

	s.resetToLobby()
	s.broadcastPlayers()
}

func (s *Session) byConn(connID string) *Player {
	for _, p := range s.players {
		if p.ConnID == connID {
			return p
		}
	}

	return nil
}

func (s *Session) byName(name string) *Player {
	name = strings.TrimSpace(name)

	for _, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}

	return nil
}

func (s *Session) findLiving(name string) *Player {
	p := s.byName(name)
	if p == nil || !p.Alive {
		return nil
	}

	return p
}

func (s *Session) aliveCount() int {
	n := 0
	for _, p := range s.players {
		if p.Alive {
			n++
		}
	}

	return n
}

// targets lists living players other than the president.
func (s *Session) targets() []string {
	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		if p.Alive && p != s.president {
			names = append(names, p.Name)
		}
	}

	return names
}

func (s *Session) broadcastPlayers() {
	players := make([]PlayerStatus, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, PlayerStatus{
			Name:          p.Name,
			Alive:         p.Alive,
			IsPresident:   s.president == p,
			IsTermLimited: s.active && (p.Name == s.lastPresidentName || p.Name == s.lastVicePresidentName),
		})
	}

	s.notify.Broadcast(PlayerListMessage{
		Type:    TypePlayerList,
		Players: players,
		Phase:   s.phase,
	})
}

func (s *Session) systemChat(text string) {
	s.notify.Broadcast(ChatMessage{Type: TypeChat, User: SystemUser, Text: text})
}
