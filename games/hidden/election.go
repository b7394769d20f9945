/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"go.uber.org/zap"
)

// startNewRound hands the presidency to the next living player in roster
// order and opens nominations.
func (s *Session) startNewRound() {
	n := len(s.players)

	s.president = nil
	for range n {
		p := s.players[s.presidentialIndex]
		s.presidentialIndex = (s.presidentialIndex + 1) % n

		if p.Alive {
			s.president = p
			break
		}
	}

	if s.president == nil {
		panic("hidden: no living player to take the presidency")
	}

	s.vicePresident = nil
	s.votes = make(map[string]bool, n)
	s.hand = nil
	s.vetoDenied = false

	s.setPhase(PhaseNomination)

	s.log.Debug("GAMES: New round", zap.String("president", s.president.Name), zap.Int("tracker", s.tracker))

	s.broadcastPlayers()
	s.notify.Broadcast(NewRoundMessage{
		Type:          TypeNewRound,
		PresidentName: s.president.Name,
		PresidentID:   s.president.ConnID,
		Tracker:       s.tracker,
	})
}

// termLimited reports whether p served in the last government. The last
// president is only barred while more than five players are alive.
func (s *Session) termLimited(p *Player) bool {
	if p.Name == s.lastVicePresidentName {
		return true
	}

	return s.aliveCount() > 5 && p.Name == s.lastPresidentName
}

// Nominate lets the president put a vice president up for election.
func (s *Session) Nominate(connID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhaseNomination); err != nil {
		return err
	}

	nominee := s.findLiving(name)
	if nominee == nil {
		return ErrUnknownTarget
	}
	if nominee == s.president {
		return ErrInvalidTarget
	}
	if s.termLimited(nominee) {
		return ErrTermLimited
	}

	s.vicePresident = nominee
	s.votes = make(map[string]bool, len(s.players))
	s.setPhase(PhaseVoting)

	s.notify.Broadcast(VotingStartedMessage{
		Type:          TypeVotingStarted,
		President:     s.president.Name,
		VicePresident: nominee.Name,
	})

	return nil
}

// Vote records a living player's ballot, replacing any earlier one this
// round, and tallies once every living player has voted.
func (s *Session) Vote(connID string, approve bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byConn(connID)
	if p == nil {
		return ErrNotPlayer
	}
	if s.phase != PhaseVoting {
		return ErrWrongPhase
	}
	if !p.Alive {
		return ErrNotAlive
	}

	s.votes[connID] = approve

	living := s.aliveCount()

	s.notify.Broadcast(VoteCastMessage{
		Type:   TypeVoteCast,
		Voter:  p.Name,
		Votes:  len(s.votes),
		Needed: living,
	})

	if len(s.votes) < living {
		return nil
	}

	s.tally(living)

	return nil
}

func (s *Session) tally(living int) {
	ballots := make([]Ballot, 0, living)
	yes := 0
	for _, p := range s.players {
		approve, ok := s.votes[p.ConnID]
		if !ok {
			continue
		}
		if approve {
			yes++
		}
		ballots = append(ballots, Ballot{Name: p.Name, Approve: approve})
	}

	passed := 2*yes > living

	s.notify.Broadcast(VoteResultMessage{
		Type:    TypeVoteResult,
		Ballots: ballots,
		Yes:     yes,
		No:      len(ballots) - yes,
		Passed:  passed,
	})

	s.log.Debug("GAMES: Election tallied",
		zap.String("president", s.president.Name),
		zap.String("vice_president", s.vicePresident.Name),
		zap.Int("yes", yes),
		zap.Bool("passed", passed),
	)

	if !passed {
		s.failElection()
		return
	}

	s.tracker = 0

	if o, over := Evaluate(Standing{
		Enacted:       s.enacted,
		LeaderElected: s.vicePresident.Role == RoleLeader,
	}); over {
		s.endGame(o)
		return
	}

	s.setPhase(PhasePresidentDraw)
	s.notify.Send(s.president.ConnID, PresidentDrawMessage{Type: TypePresidentDraw})
}

// failElection advances the tracker. On the third consecutive failure the
// top card is enacted as-is and the tracker starts over.
func (s *Session) failElection() {
	s.tracker++

	if s.tracker < TrackerLimit {
		s.startNewRound()
		return
	}

	s.tracker = 0

	cards, reshuffled := s.deck.Draw(1)
	if reshuffled {
		s.systemChat("Reshuffling discard pile back into the deck...")
	}

	s.log.Info("GAMES: Chaos enactment", zap.String("policy", string(cards[0])))

	s.enact(cards[0], true)
}

// enact places a policy on the board and moves on to the win check, a
// power, or the next round.
func (s *Session) enact(policy Policy, chaos bool) {
	s.enacted.add(policy)

	s.lastPresidentName = s.president.Name
	if s.vicePresident != nil {
		s.lastVicePresidentName = s.vicePresident.Name
	}

	s.notify.Broadcast(PolicyEnactedMessage{
		Type:        TypePolicyEnacted,
		Policy:      policy,
		Chaos:       chaos,
		Enacted:     s.enacted,
		Tracker:     s.tracker,
		PlayerCount: len(s.players),
	})

	if o, over := Evaluate(Standing{Enacted: s.enacted}); over {
		s.endGame(o)
		return
	}

	if policy == PolicyConstruction {
		s.grantPower()
		return
	}

	s.startNewRound()
}

func (s *Session) requirePresident(connID string, phase Phase) error {
	if s.byConn(connID) == nil {
		return ErrNotPlayer
	}
	if s.phase != phase {
		return ErrWrongPhase
	}
	if s.president == nil || s.president.ConnID != connID {
		return ErrNotPresident
	}

	return nil
}

func (s *Session) requireVicePresident(connID string, phase Phase) error {
	if s.byConn(connID) == nil {
		return ErrNotPlayer
	}
	if s.phase != phase {
		return ErrWrongPhase
	}
	if s.vicePresident == nil || s.vicePresident.ConnID != connID {
		return ErrNotVicePresident
	}

	return nil
}
