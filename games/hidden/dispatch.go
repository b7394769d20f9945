/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"go.uber.org/zap"
)

// Dispatch routes one client event to the matching operation. Rejections
// are reported to the sender as an ErrorMessage and returned.
func (s *Session) Dispatch(connID string, msg ClientMessage) error {
	err := s.route(connID, msg)
	if err == nil {
		return nil
	}

	reply := Reply(err)

	s.log.Debug("GAMES: Rejected event",
		zap.String("conn", connID),
		zap.String("type", msg.Type),
		zap.String("code", string(reply.Code)),
	)

	s.mu.Lock()
	s.notify.Send(connID, reply)
	s.mu.Unlock()

	return err
}

func (s *Session) route(connID string, msg ClientMessage) error {
	switch msg.Type {
	case EventJoinGame:
		return s.Join(connID, msg.Name)
	case EventStartGame:
		return s.Start(connID)
	case EventNominateVP:
		return s.Nominate(connID, msg.Name)
	case EventSubmitVote:
		if msg.Vote == nil {
			return ErrBadRequest
		}
		return s.Vote(connID, *msg.Vote)
	case EventDrawThree:
		return s.DrawThree(connID)
	case EventPresDiscard:
		for _, c := range msg.Cards {
			if !c.valid() {
				return ErrInvalidCards
			}
		}
		return s.PresidentDiscard(connID, msg.Cards)
	case EventVPEnact:
		if !msg.Card.valid() {
			return ErrInvalidCards
		}
		return s.Enact(connID, msg.Card)
	case EventVPVetoRequest:
		return s.RequestVeto(connID)
	case EventPresVetoConfirm:
		if msg.Agree == nil {
			return ErrBadRequest
		}
		return s.ConfirmVeto(connID, *msg.Agree)
	case EventPowerInvestigate:
		return s.Investigate(connID, msg.Name)
	case EventPowerExpel:
		return s.Expel(connID, msg.Name)
	case EventPeekFinished:
		return s.PeekFinished(connID)
	case EventSendChat:
		return s.Chat(connID, msg.Text)
	default:
		return ErrBadRequest
	}
}
