/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

// step makes one legal move for whoever the current phase is waiting on.
func step(t *testing.T, s *Session, r *rand.Rand) {
	t.Helper()

	president := s.president.ConnID

	switch s.phase {
	case PhaseNomination:
		var eligible []string
		for _, p := range s.players {
			if p.Alive && p != s.president && !s.termLimited(p) {
				eligible = append(eligible, p.Name)
			}
		}
		if len(eligible) == 0 {
			t.Fatalf("no eligible nominee among %d living", s.aliveCount())
		}
		mustNil(t, s.Nominate(president, eligible[r.IntN(len(eligible))]))
	case PhaseVoting:
		for _, p := range append([]*Player(nil), s.players...) {
			if s.phase != PhaseVoting {
				break
			}
			if p.Alive {
				mustNil(t, s.Vote(p.ConnID, r.IntN(3) > 0))
			}
		}
	case PhasePresidentDraw:
		mustNil(t, s.DrawThree(president))
	case PhasePresidentDiscard:
		drop := r.IntN(len(s.hand))
		keep := make([]Policy, 0, 2)
		for i, c := range s.hand {
			if i != drop {
				keep = append(keep, c)
			}
		}
		mustNil(t, s.PresidentDiscard(president, keep))
	case PhaseVicePresidentEnact:
		if s.canVeto() && r.IntN(2) == 0 {
			mustNil(t, s.RequestVeto(s.vicePresident.ConnID))
			return
		}
		mustNil(t, s.Enact(s.vicePresident.ConnID, s.hand[r.IntN(len(s.hand))]))
	case PhaseVetoPending:
		mustNil(t, s.ConfirmVeto(president, r.IntN(2) == 0))
	case PhaseInvestigate:
		targets := s.targets()
		mustNil(t, s.Investigate(president, targets[r.IntN(len(targets))]))
	case PhaseExpel:
		targets := s.targets()
		mustNil(t, s.Expel(president, targets[r.IntN(len(targets))]))
	case PhasePeek:
		mustNil(t, s.PeekFinished(president))
	default:
		t.Fatalf("unexpected phase %s", s.phase)
	}
}

func TestRandomPlaythroughs(t *testing.T) {
	for seed := uint64(1); seed <= 40; seed++ {
		n := MinPlayers + int(seed)%(MaxPlayers-MinPlayers+1)

		t.Run(fmt.Sprintf("seed_%d_%d_players", seed, n), func(t *testing.T) {
			s, rec := newGame(t, n, Options{Shuffle: seeded(seed)})
			r := rand.New(rand.NewPCG(seed, seed+1))

			for steps := 0; s.active; steps++ {
				if steps > 5000 {
					t.Fatalf("game did not finish")
				}

				if got := accounted(s); got != TotalCards {
					t.Fatalf("cards accounted = %d in phase %s", got, s.phase)
				}
				if !s.president.Alive {
					t.Fatalf("president %s is expelled", s.president.Name)
				}
				if s.tracker >= TrackerLimit {
					t.Fatalf("tracker = %d", s.tracker)
				}

				step(t, s, r)
			}

			over, ok := last[GameOverMessage](rec, everyone)
			if !ok {
				t.Fatalf("game ended without a result")
			}
			if over.Winner != FactionLoyalist && over.Winner != FactionInfiltrator {
				t.Fatalf("winner = %q", over.Winner)
			}
			if len(over.Roles) != n {
				t.Fatalf("roles revealed = %d, want %d", len(over.Roles), n)
			}
		})
	}
}
