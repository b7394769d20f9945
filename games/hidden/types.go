/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

// Policy is a single policy card.
type Policy string

const (
	PolicyTradition    Policy = "Tradition"
	PolicyConstruction Policy = "Construction"
)

func (p Policy) valid() bool {
	return p == PolicyTradition || p == PolicyConstruction
}

type Role string

const (
	RoleUnassigned  Role = "Unassigned"
	RoleLoyalist    Role = "Loyalist"
	RoleInfiltrator Role = "Infiltrator"
	RoleLeader      Role = "Leader"
)

type Faction string

const (
	FactionLoyalist    Faction = "Loyalist"
	FactionInfiltrator Faction = "Infiltrator"
)

// Phase is the step of the round the session is waiting on.
type Phase string

const (
	PhaseLobby              Phase = "lobby"
	PhaseNomination         Phase = "nomination"
	PhaseVoting             Phase = "voting"
	PhasePresidentDraw      Phase = "president_draw"
	PhasePresidentDiscard   Phase = "president_discard"
	PhaseVicePresidentEnact Phase = "vice_president_enact"
	PhaseVetoPending        Phase = "veto_pending"
	PhaseInvestigate        Phase = "investigate"
	PhasePeek               Phase = "peek"
	PhaseExpel              Phase = "expel"
)

const (
	MinPlayers = 5
	MaxPlayers = 10

	TraditionCards    = 6
	ConstructionCards = 11
	TotalCards        = TraditionCards + ConstructionCards

	// TrackerLimit is the number of consecutive failed elections that
	// force the top card into play.
	TrackerLimit = 3

	TraditionToWin    = 5
	ConstructionToWin = 6

	// LeaderElectionThreshold is the construction count from which an
	// elected Leader vice president wins outright.
	LeaderElectionThreshold = 3

	// VetoThreshold is the construction count that unlocks the veto.
	VetoThreshold = 5
)

// Player holds the data we store server-side.
type Player struct {
	ConnID  string
	Name    string
	Role    Role
	Faction Faction
	Alive   bool
}

// Enacted counts policies placed on the board.
type Enacted struct {
	Tradition    int `json:"tradition"`
	Construction int `json:"construction"`
}

func (e *Enacted) add(p Policy) {
	switch p {
	case PolicyTradition:
		e.Tradition++
	case PolicyConstruction:
		e.Construction++
	}
}

func (e Enacted) total() int {
	return e.Tradition + e.Construction
}
