/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

// Inbound event names.
const (
	EventJoinGame         = "joinGame"
	EventStartGame        = "startGame"
	EventNominateVP       = "nominateVP"
	EventSubmitVote       = "submitVote"
	EventDrawThree        = "drawThree"
	EventPresDiscard      = "presDiscard"
	EventVPEnact          = "vpEnact"
	EventVPVetoRequest    = "vpVetoRequest"
	EventPresVetoConfirm  = "presVetoConfirm"
	EventPowerInvestigate = "powerInvestigate"
	EventPowerExpel       = "powerExpel"
	EventPeekFinished     = "peekFinished"
	EventSendChat         = "sendChat"
)

// ClientMessage is a participant-originated event. Which payload fields
// are read depends on Type.
type ClientMessage struct {
	Type  string   `json:"type"`
	Name  string   `json:"name,omitempty"`  // joinGame, nominateVP, powerInvestigate, powerExpel
	Vote  *bool    `json:"vote,omitempty"`  // submitVote
	Cards []Policy `json:"cards,omitempty"` // presDiscard
	Card  Policy   `json:"card,omitempty"`  // vpEnact
	Agree *bool    `json:"agree,omitempty"` // presVetoConfirm
	Text  string   `json:"text,omitempty"`  // sendChat
}

// Outbound message types.
const (
	TypeJoined             = "joined"
	TypePlayerList         = "player_list"
	TypeRoleReveal         = "role_reveal"
	TypeGameStarted        = "game_started"
	TypeNewRound           = "new_round"
	TypeVotingStarted      = "voting_started"
	TypeVoteCast           = "vote_cast"
	TypeVoteResult         = "vote_result"
	TypePresidentDraw      = "president_draw"
	TypePresidentDiscard   = "president_discard"
	TypeVicePresidentEnact = "vice_president_enact"
	TypeVetoRequested      = "veto_requested"
	TypeVetoResult         = "veto_result"
	TypePolicyEnacted      = "policy_enacted"
	TypeInvestigate        = "investigate"
	TypeInvestigateResult  = "investigate_result"
	TypePeek               = "peek"
	TypeExpel              = "expel"
	TypePlayerExpelled     = "player_expelled"
	TypeChat               = "chat"
	TypeGameOver           = "game_over"
	TypeResetToLobby       = "reset_to_lobby"
	TypeError              = "error"
)

// SystemUser is the chat author used for server notices.
const SystemUser = "SYSTEM"

// JoinedMessage acknowledges a successful join to the joining client.
type JoinedMessage struct {
	Type string `json:"type"` // "joined"
	Name string `json:"name"`
	Room string `json:"room"`
}

type PlayerStatus struct {
	Name          string `json:"name"`
	Alive         bool   `json:"alive"`
	IsPresident   bool   `json:"is_president"`
	IsTermLimited bool   `json:"is_term_limited"`
}

// PlayerListMessage is broadcast whenever membership or officers change.
type PlayerListMessage struct {
	Type    string         `json:"type"` // "player_list"
	Players []PlayerStatus `json:"players"`
	Phase   Phase          `json:"phase"`
}

// RoleRevealMessage is sent privately to each player at game start.
type RoleRevealMessage struct {
	Type    string   `json:"type"` // "role_reveal"
	Role    Role     `json:"role"`
	Faction Faction  `json:"faction"`
	Info    string   `json:"info"`
	Leader  string   `json:"leader,omitempty"`
	Allies  []string `json:"allies,omitempty"`
}

type GameStartedMessage struct {
	Type    string `json:"type"` // "game_started"
	Players int    `json:"players"`
}

type NewRoundMessage struct {
	Type          string `json:"type"` // "new_round"
	PresidentName string `json:"president_name"`
	PresidentID   string `json:"president_id"`
	Tracker       int    `json:"tracker"`
}

type VotingStartedMessage struct {
	Type          string `json:"type"` // "voting_started"
	President     string `json:"president"`
	VicePresident string `json:"vice_president"`
}

// VoteCastMessage announces that someone voted, without the choice.
type VoteCastMessage struct {
	Type   string `json:"type"` // "vote_cast"
	Voter  string `json:"voter"`
	Votes  int    `json:"votes"`
	Needed int    `json:"needed"`
}

type Ballot struct {
	Name    string `json:"name"`
	Approve bool   `json:"approve"`
}

// VoteResultMessage reveals every ballot once the tally completes.
type VoteResultMessage struct {
	Type    string   `json:"type"` // "vote_result"
	Ballots []Ballot `json:"ballots"`
	Yes     int      `json:"yes"`
	No      int      `json:"no"`
	Passed  bool     `json:"passed"`
}

// PresidentDrawMessage prompts the elected president to draw.
type PresidentDrawMessage struct {
	Type string `json:"type"` // "president_draw"
}

type PresidentDiscardMessage struct {
	Type  string   `json:"type"` // "president_discard"
	Cards []Policy `json:"cards"`
}

type VicePresidentEnactMessage struct {
	Type    string   `json:"type"` // "vice_president_enact"
	Cards   []Policy `json:"cards"`
	CanVeto bool     `json:"can_veto"`
}

type VetoRequestedMessage struct {
	Type          string `json:"type"` // "veto_requested"
	VicePresident string `json:"vice_president"`
}

type VetoResultMessage struct {
	Type   string `json:"type"` // "veto_result"
	Agreed bool   `json:"agreed"`
}

type PolicyEnactedMessage struct {
	Type        string  `json:"type"` // "policy_enacted"
	Policy      Policy  `json:"policy"`
	Chaos       bool    `json:"chaos"`
	Enacted     Enacted `json:"enacted"`
	Tracker     int     `json:"tracker"`
	PlayerCount int     `json:"player_count"`
}

// PowerMessage prompts the president to use investigate or expel.
type PowerMessage struct {
	Type    string   `json:"type"` // "investigate" or "expel"
	Targets []string `json:"targets"`
}

type InvestigateResultMessage struct {
	Type    string  `json:"type"` // "investigate_result"
	Name    string  `json:"name"`
	Faction Faction `json:"faction"`
}

type PeekMessage struct {
	Type  string   `json:"type"` // "peek"
	Cards []Policy `json:"cards"`
}

type PlayerExpelledMessage struct {
	Type string `json:"type"` // "player_expelled"
	Name string `json:"name"`
}

type ChatMessage struct {
	Type string `json:"type"` // "chat"
	User string `json:"user"`
	Text string `json:"text"`
}

type RoleSummary struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type GameOverMessage struct {
	Type   string        `json:"type"` // "game_over"
	Winner Faction       `json:"winner"`
	Reason string        `json:"reason"`
	Roles  []RoleSummary `json:"roles"`
}

type ResetToLobbyMessage struct {
	Type    string `json:"type"` // "reset_to_lobby"
	Message string `json:"message"`
}

// ErrorMessage carries a soft error to the offending client only.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    Code   `json:"code"`
	Message string `json:"message"`
}
