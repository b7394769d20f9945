/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"errors"
	"testing"
)

// enactConstruction runs an election of vp and a legislative session in
// which the government passes a Construction policy. The draw pile must
// start with three Construction cards.
func enactConstruction(t *testing.T, s *Session, vp string) {
	t.Helper()

	president := s.president.ConnID
	elect(t, s, vp)

	vice := s.vicePresident.ConnID
	mustNil(t, s.DrawThree(president))
	mustNil(t, s.PresidentDiscard(president, []Policy{PolicyConstruction, PolicyConstruction}))
	mustNil(t, s.Enact(vice, PolicyConstruction))
}

// constructionOnly swaps the Tradition cards on top of the draw pile into
// the discard pile and records already enacted Construction policies, so
// the card count still totals seventeen.
func constructionOnly(s *Session, enacted int) {
	s.enacted.Construction = enacted
	s.deck.draw = s.deck.draw[TraditionCards : TotalCards-enacted]
	for range TraditionCards {
		s.deck.Discard(PolicyTradition)
	}
}

func TestPower_Peek(t *testing.T) {
	s, rec := newGame(t, 5, Options{})
	constructionOnly(s, 2)

	enactConstruction(t, s, name(2))

	if s.phase != PhasePeek {
		t.Fatalf("phase = %s, want %s", s.phase, PhasePeek)
	}

	peek, ok := last[PeekMessage](rec, conn(0))
	if !ok || len(peek.Cards) != 3 {
		t.Fatalf("peek = %+v", peek)
	}

	before := s.deck.DrawLen()

	if err := s.PeekFinished(conn(2)); !errors.Is(err, ErrNotPresident) {
		t.Fatalf("err = %v, want %v", err, ErrNotPresident)
	}

	mustNil(t, s.PeekFinished(conn(0)))

	if s.deck.DrawLen() != before || accounted(s) != TotalCards {
		t.Fatalf("peek removed cards: draw %d -> %d", before, s.deck.DrawLen())
	}
	if s.president != s.players[1] || s.phase != PhaseNomination {
		t.Fatalf("president = %s phase = %s", s.president.Name, s.phase)
	}
}

func TestPower_Investigate(t *testing.T) {
	s, rec := newGame(t, 7, Options{})
	constructionOnly(s, 1)

	enactConstruction(t, s, name(3))

	if s.phase != PhaseInvestigate {
		t.Fatalf("phase = %s, want %s", s.phase, PhaseInvestigate)
	}

	prompt, ok := last[PowerMessage](rec, conn(0))
	if !ok || prompt.Type != TypeInvestigate || len(prompt.Targets) != 6 {
		t.Fatalf("prompt = %+v", prompt)
	}
	for _, target := range prompt.Targets {
		if target == name(0) {
			t.Fatalf("president offered as a target")
		}
	}

	s.players[6].Alive = false

	tests := []struct {
		name   string
		conn   string
		target string
		want   error
	}{
		{"self", conn(0), name(0), ErrInvalidTarget},
		{"expelled", conn(0), name(6), ErrUnknownTarget},
		{"unknown", conn(0), "Zed", ErrUnknownTarget},
		{"not the president", conn(1), name(2), ErrNotPresident},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Investigate(tt.conn, tt.target); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if s.phase != PhaseInvestigate {
				t.Fatalf("rejected investigation changed phase to %s", s.phase)
			}
		})
	}

	rec.reset()
	mustNil(t, s.Investigate(conn(0), name(1)))

	result, ok := last[InvestigateResultMessage](rec, conn(0))
	if !ok || result.Name != name(1) || result.Faction != FactionInfiltrator {
		t.Fatalf("result = %+v", result)
	}

	for _, m := range all[InvestigateResultMessage](rec) {
		if m.to != conn(0) {
			t.Fatalf("investigation leaked to %s", m.to)
		}
	}

	if s.phase != PhaseNomination {
		t.Fatalf("phase = %s after investigation", s.phase)
	}
}

func TestPower_Expel(t *testing.T) {
	s, rec := newGame(t, 5, Options{})
	constructionOnly(s, 3)

	enactConstruction(t, s, name(2))

	if s.phase != PhaseExpel {
		t.Fatalf("phase = %s, want %s", s.phase, PhaseExpel)
	}

	if err := s.Expel(conn(0), name(0)); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("self-expel err = %v, want %v", err, ErrInvalidTarget)
	}

	mustNil(t, s.Expel(conn(0), name(3)))

	expelled, ok := last[PlayerExpelledMessage](rec, everyone)
	if !ok || expelled.Name != name(3) {
		t.Fatalf("expelled = %+v", expelled)
	}
	if s.players[3].Alive || s.aliveCount() != 4 {
		t.Fatalf("alive = %d", s.aliveCount())
	}
	if !s.active || s.president != s.players[1] {
		t.Fatalf("active=%v president=%s", s.active, s.president.Name)
	}

	if err := s.Vote(conn(3), true); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("err = %v, want %v", err, ErrWrongPhase)
	}

	mustNil(t, s.Nominate(conn(1), name(4)))

	if err := s.Vote(conn(3), true); !errors.Is(err, ErrNotAlive) {
		t.Fatalf("expelled vote err = %v, want %v", err, ErrNotAlive)
	}
}

func TestPower_ExpelLeader(t *testing.T) {
	tests := []struct {
		name       string
		keepRoster bool
		remaining  int
	}{
		{"roster cleared", false, 0},
		{"roster kept", true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newGame(t, 5, Options{KeepRoster: tt.keepRoster})
			constructionOnly(s, 3)

			// Pass the presidency from A, the Leader, to B.
			failRound(t, s)
			enactConstruction(t, s, name(2))

			mustNil(t, s.Expel(conn(1), name(0)))

			over, ok := last[GameOverMessage](rec, everyone)
			if !ok || over.Winner != FactionLoyalist {
				t.Fatalf("game over = %+v", over)
			}

			if s.active || len(s.players) != tt.remaining {
				t.Fatalf("active=%v players=%d, want %d", s.active, len(s.players), tt.remaining)
			}
			for _, p := range s.players {
				if p.Role != RoleUnassigned || !p.Alive {
					t.Errorf("%s kept game state: %+v", p.Name, p)
				}
			}

			list, ok := last[PlayerListMessage](rec, everyone)
			if !ok || len(list.Players) != tt.remaining || list.Phase != PhaseLobby {
				t.Fatalf("player list = %+v", list)
			}
		})
	}
}

func TestPower_NoneStartsNextRound(t *testing.T) {
	s, rec := newGame(t, 5, Options{})
	constructionOnly(s, 0)

	enactConstruction(t, s, name(2))

	if len(all[PowerMessage](rec))+len(all[PeekMessage](rec)) != 0 {
		t.Fatalf("power granted for the first Construction in a five-player game")
	}
	if s.phase != PhaseNomination || s.president != s.players[1] {
		t.Fatalf("phase = %s president = %s", s.phase, s.president.Name)
	}
}
