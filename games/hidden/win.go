/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

// Standing is everything the win check looks at.
type Standing struct {
	Enacted        Enacted
	LeaderElected  bool // a Leader was just elected vice president
	LeaderExpelled bool
}

type Outcome struct {
	Winner Faction
	Reason string
}

// Evaluate applies the win conditions in precedence order and reports
// whether the game is over.
func Evaluate(s Standing) (Outcome, bool) {
	switch {
	case s.LeaderElected && s.Enacted.Construction >= LeaderElectionThreshold:
		return Outcome{FactionInfiltrator, "The Leader was elected vice president!"}, true
	case s.Enacted.Tradition >= TraditionToWin:
		return Outcome{FactionLoyalist, "Tradition preserved!"}, true
	case s.Enacted.Construction >= ConstructionToWin:
		return Outcome{FactionInfiltrator, "Construction completed!"}, true
	case s.LeaderExpelled:
		return Outcome{FactionLoyalist, "The Leader was expelled!"}, true
	}

	return Outcome{}, false
}
