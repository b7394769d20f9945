/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"
)

const everyone = "*"

type sent struct {
	to  string
	msg any
}

// recorder is a Notifier that keeps everything it is asked to deliver.
type recorder struct {
	mu   sync.Mutex
	msgs []sent
}

func (r *recorder) Send(connID string, msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, sent{to: connID, msg: msg})
}

func (r *recorder) Broadcast(msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, sent{to: everyone, msg: msg})
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = nil
}

// all returns every recorded message of type T with its recipient.
func all[T any](r *recorder) []sent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []sent
	for _, m := range r.msgs {
		if _, ok := m.msg.(T); ok {
			out = append(out, m)
		}
	}

	return out
}

// last returns the most recent message of type T delivered to connID
// (or broadcast, when connID is everyone).
func last[T any](r *recorder, connID string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.msgs) - 1; i >= 0; i-- {
		m := r.msgs[i]
		if m.to != connID {
			continue
		}
		if v, ok := m.msg.(T); ok {
			return v, true
		}
	}

	var zero T
	return zero, false
}

// noShuffle leaves every permutation as the identity, so the deck is six
// Tradition cards followed by eleven Construction cards and roles go to
// the first players in roster order.
func noShuffle(int, func(i, j int)) {}

func seeded(seed uint64) ShuffleFunc {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Shuffle
}

func conn(i int) string {
	return fmt.Sprintf("c%d", i)
}

func name(i int) string {
	return string(rune('A' + i))
}

// newLobby returns a session with n joined players named A, B, C...
// connected as c0, c1, c2...
func newLobby(t *testing.T, n int, opts Options) (*Session, *recorder) {
	t.Helper()

	if opts.Shuffle == nil {
		opts.Shuffle = noShuffle
	}

	rec := &recorder{}
	s := NewSession("test", rec, opts)

	for i := range n {
		if err := s.Join(conn(i), name(i)); err != nil {
			t.Fatalf("join %s: %v", name(i), err)
		}
	}

	return s, rec
}

// newGame returns a started session. With the default identity shuffle
// A (c0) is the Leader, the next infiltratorCount(n) players are
// Infiltrators, and A is the first president.
func newGame(t *testing.T, n int, opts Options) (*Session, *recorder) {
	t.Helper()

	s, rec := newLobby(t, n, opts)
	if err := s.Start(conn(0)); err != nil {
		t.Fatalf("start: %v", err)
	}

	return s, rec
}

func mustNil(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// voteAll has every living player cast the same ballot.
func voteAll(t *testing.T, s *Session, approve bool) {
	t.Helper()

	for _, p := range append([]*Player(nil), s.players...) {
		if !p.Alive || !s.active || s.phase != PhaseVoting {
			continue
		}
		mustNil(t, s.Vote(p.ConnID, approve))
	}
}

// elect runs a successful election of vp under the sitting president.
func elect(t *testing.T, s *Session, vp string) {
	t.Helper()

	mustNil(t, s.Nominate(s.president.ConnID, vp))
	voteAll(t, s, true)
}

// failRound runs a failed election with any eligible nominee.
func failRound(t *testing.T, s *Session) {
	t.Helper()

	for _, p := range s.players {
		if p.Alive && p != s.president && !s.termLimited(p) {
			mustNil(t, s.Nominate(s.president.ConnID, p.Name))
			voteAll(t, s, false)
			return
		}
	}

	t.Fatalf("no eligible nominee")
}

// accounted counts every card the session knows about.
func accounted(s *Session) int {
	return s.deck.DrawLen() + s.deck.DiscardLen() + len(s.hand) + s.enacted.total()
}

// fakeTimers captures phase deadlines so tests can fire them by hand.
type fakeTimers struct {
	fns     []func()
	stopped int
}

func (f *fakeTimers) AfterFunc(_ time.Duration, fn func()) func() bool {
	f.fns = append(f.fns, fn)

	return func() bool {
		f.stopped++
		return true
	}
}
