/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"go.uber.org/zap"
)

// Power is the one-shot presidential power granted by a Construction
// enactment.
type Power string

const (
	PowerNone        Power = "none"
	PowerInvestigate Power = "investigate"
	PowerPeek        Power = "peek"
	PowerExpel       Power = "expel"
)

// ResolvePower maps the construction count after an enactment and the
// total roster size to the power it unlocks. First match wins.
func ResolvePower(construction, rosterSize int) Power {
	switch {
	case construction == 1 && rosterSize >= 9:
		return PowerInvestigate
	case construction == 2 && rosterSize >= 7:
		return PowerInvestigate
	case construction == 3:
		return PowerPeek
	case construction == 4 || construction == 5:
		return PowerExpel
	default:
		return PowerNone
	}
}

// grantPower hands the president whatever the latest Construction
// enactment unlocked.
func (s *Session) grantPower() {
	power := ResolvePower(s.enacted.Construction, len(s.players))

	s.log.Debug("GAMES: Power granted", zap.String("power", string(power)), zap.String("president", s.president.Name))

	switch power {
	case PowerInvestigate:
		s.setPhase(PhaseInvestigate)
		s.notify.Send(s.president.ConnID, PowerMessage{Type: TypeInvestigate, Targets: s.targets()})
	case PowerPeek:
		cards, reshuffled := s.deck.Peek(3)
		if reshuffled {
			s.systemChat("Reshuffling discard pile back into the deck...")
		}
		s.setPhase(PhasePeek)
		s.notify.Send(s.president.ConnID, PeekMessage{Type: TypePeek, Cards: cards})
	case PowerExpel:
		s.setPhase(PhaseExpel)
		s.notify.Send(s.president.ConnID, PowerMessage{Type: TypeExpel, Targets: s.targets()})
	default:
		s.startNewRound()
		return
	}

	s.systemChat(s.president.Name + " may now use the " + string(power) + " power.")
}

func (s *Session) powerTarget(name string) (*Player, error) {
	target := s.findLiving(name)
	if target == nil {
		return nil, ErrUnknownTarget
	}
	if target == s.president {
		return nil, ErrInvalidTarget
	}

	return target, nil
}

// Investigate shows the president one living player's faction.
func (s *Session) Investigate(connID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhaseInvestigate); err != nil {
		return err
	}

	target, err := s.powerTarget(name)
	if err != nil {
		return err
	}

	s.notify.Send(connID, InvestigateResultMessage{
		Type:    TypeInvestigateResult,
		Name:    target.Name,
		Faction: target.Faction,
	})
	s.systemChat(s.president.Name + " investigated " + target.Name + ".")

	s.startNewRound()

	return nil
}

// Expel removes a living player from play. Expelling the Leader ends the
// game.
func (s *Session) Expel(connID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhaseExpel); err != nil {
		return err
	}

	target, err := s.powerTarget(name)
	if err != nil {
		return err
	}

	target.Alive = false

	s.log.Info("GAMES: Player expelled", zap.String("name", target.Name))

	s.notify.Broadcast(PlayerExpelledMessage{Type: TypePlayerExpelled, Name: target.Name})
	s.systemChat(target.Name + " was EXPELLED!")

	if o, over := Evaluate(Standing{
		Enacted:        s.enacted,
		LeaderExpelled: target.Role == RoleLeader,
	}); over {
		s.endGame(o)
		return nil
	}

	s.startNewRound()

	return nil
}

// PeekFinished closes the peek power.
func (s *Session) PeekFinished(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhasePeek); err != nil {
		return err
	}

	s.startNewRound()

	return nil
}
