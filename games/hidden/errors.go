/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"errors"
)

// Code is a machine-readable validation error code.
type Code string

const (
	CodeBadRequest       Code = "bad_request"
	CodeWrongPhase       Code = "wrong_phase"
	CodeNotPresident     Code = "not_president"
	CodeNotVicePresident Code = "not_vice_president"
	CodeNotPlayer        Code = "not_player"
	CodeNotAlive         Code = "not_alive"
	CodeUnknownTarget    Code = "unknown_target"
	CodeInvalidTarget    Code = "invalid_target"
	CodeTermLimited      Code = "term_limited"
	CodeNameTaken        Code = "name_taken"
	CodeNameEmpty        Code = "name_empty"
	CodeLobbyClosed      Code = "lobby_closed"
	CodeRosterFull       Code = "roster_full"
	CodeTooFewPlayers    Code = "too_few_players"
	CodeInvalidCards     Code = "invalid_cards"
	CodeVetoUnavailable  Code = "veto_unavailable"
	CodeAlreadyJoined    Code = "already_joined"
	CodeEmptyMessage     Code = "empty_message"
	CodeRateLimited      Code = "rate_limited"
)

// ValidationError is a recoverable participant mistake. It is reported
// only to the sender and never changes session state.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is matches any ValidationError carrying the same code, so the sentinels
// below work with errors.Is regardless of message text.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

func invalid(code Code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

var (
	ErrBadRequest       = invalid(CodeBadRequest, "That request could not be understood.")
	ErrWrongPhase       = invalid(CodeWrongPhase, "That action is not allowed right now.")
	ErrNotPresident     = invalid(CodeNotPresident, "Only the president can do that.")
	ErrNotVicePresident = invalid(CodeNotVicePresident, "Only the vice president can do that.")
	ErrNotPlayer        = invalid(CodeNotPlayer, "You have not joined this game.")
	ErrNotAlive         = invalid(CodeNotAlive, "Expelled players cannot act.")
	ErrUnknownTarget    = invalid(CodeUnknownTarget, "No living player has that name.")
	ErrInvalidTarget    = invalid(CodeInvalidTarget, "You cannot choose that player.")
	ErrTermLimited      = invalid(CodeTermLimited, "That player is term-limited this round.")
	ErrNameTaken        = invalid(CodeNameTaken, "That name is already taken. Pick another!")
	ErrNameEmpty        = invalid(CodeNameEmpty, "Please enter a name.")
	ErrLobbyClosed      = invalid(CodeLobbyClosed, "Game is already in progress. Please wait for it to end.")
	ErrRosterFull       = invalid(CodeRosterFull, "This game is full.")
	ErrTooFewPlayers    = invalid(CodeTooFewPlayers, "Need at least 5 players to start.")
	ErrInvalidCards     = invalid(CodeInvalidCards, "Those cards are not in your hand.")
	ErrVetoUnavailable  = invalid(CodeVetoUnavailable, "Veto is not available.")
	ErrAlreadyJoined    = invalid(CodeAlreadyJoined, "You have already joined.")
	ErrEmptyMessage     = invalid(CodeEmptyMessage, "Message is empty.")
	ErrRateLimited      = invalid(CodeRateLimited, "Slow down.")
)

// Reply renders err as the error frame sent back to the offending
// connection. Errors outside the taxonomy are reported as bad requests.
func Reply(err error) ErrorMessage {
	var v *ValidationError
	if !errors.As(err, &v) {
		v = ErrBadRequest
	}

	return ErrorMessage{Type: TypeError, Code: v.Code, Message: v.Message}
}
