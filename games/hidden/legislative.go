/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"go.uber.org/zap"
)

// removeCards takes cards out of hand as a multiset and returns what is
// left. ok is false if any card is not in hand.
func removeCards(hand, cards []Policy) (rest []Policy, ok bool) {
	rest = make([]Policy, len(hand))
	copy(rest, hand)

	for _, c := range cards {
		found := false
		for i, h := range rest {
			if h == c {
				rest = append(rest[:i], rest[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}

	return rest, true
}

func (s *Session) canVeto() bool {
	return s.enacted.Construction >= VetoThreshold && !s.vetoDenied
}

// DrawThree deals the top three cards to the president. The hand stays on
// the server so the discard step can be checked against it.
func (s *Session) DrawThree(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhasePresidentDraw); err != nil {
		return err
	}

	cards, reshuffled := s.deck.Draw(3)
	if reshuffled {
		s.systemChat("Reshuffling discard pile back into the deck...")
	}

	s.hand = cards
	s.setPhase(PhasePresidentDiscard)

	hand := make([]Policy, len(cards))
	copy(hand, cards)
	s.notify.Send(connID, PresidentDiscardMessage{Type: TypePresidentDiscard, Cards: hand})

	return nil
}

// PresidentDiscard forwards two of the president's three cards to the
// vice president and discards the third.
func (s *Session) PresidentDiscard(connID string, keep []Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhasePresidentDiscard); err != nil {
		return err
	}

	if len(keep) != 2 {
		return ErrInvalidCards
	}

	rest, ok := removeCards(s.hand, keep)
	if !ok {
		return ErrInvalidCards
	}

	s.deck.Discard(rest...)

	s.hand = make([]Policy, len(keep))
	copy(s.hand, keep)

	s.setPhase(PhaseVicePresidentEnact)
	s.promptVicePresident()

	return nil
}

func (s *Session) promptVicePresident() {
	cards := make([]Policy, len(s.hand))
	copy(cards, s.hand)

	s.notify.Send(s.vicePresident.ConnID, VicePresidentEnactMessage{
		Type:    TypeVicePresidentEnact,
		Cards:   cards,
		CanVeto: s.canVeto(),
	})
}

// Enact plays one of the two forwarded cards and discards the other.
func (s *Session) Enact(connID string, policy Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireVicePresident(connID, PhaseVicePresidentEnact); err != nil {
		return err
	}

	rest, ok := removeCards(s.hand, []Policy{policy})
	if !ok {
		return ErrInvalidCards
	}

	s.deck.Discard(rest...)
	s.hand = nil

	s.enact(policy, false)

	return nil
}

// RequestVeto asks the president to scrap both forwarded cards.
func (s *Session) RequestVeto(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireVicePresident(connID, PhaseVicePresidentEnact); err != nil {
		return err
	}

	if !s.canVeto() {
		return ErrVetoUnavailable
	}

	s.setPhase(PhaseVetoPending)

	s.notify.Send(s.president.ConnID, VetoRequestedMessage{
		Type:          TypeVetoRequested,
		VicePresident: s.vicePresident.Name,
	})
	s.systemChat(s.vicePresident.Name + " has requested a veto.")

	return nil
}

// ConfirmVeto settles a veto request. An accepted veto discards both cards
// and counts as a failed election. A refused one sends the vice president
// back to enact without the veto option.
func (s *Session) ConfirmVeto(connID string, agree bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePresident(connID, PhaseVetoPending); err != nil {
		return err
	}

	s.notify.Broadcast(VetoResultMessage{Type: TypeVetoResult, Agreed: agree})

	if !agree {
		s.vetoDenied = true
		s.setPhase(PhaseVicePresidentEnact)
		s.promptVicePresident()

		return nil
	}

	s.log.Debug("GAMES: Veto accepted", zap.String("president", s.president.Name))

	s.deck.Discard(s.hand...)
	s.hand = nil

	s.lastPresidentName = s.president.Name
	s.lastVicePresidentName = s.vicePresident.Name

	s.failElection()

	return nil
}
