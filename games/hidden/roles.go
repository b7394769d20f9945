/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"strings"
)

// Reveal is a private role message addressed to one connection.
type Reveal struct {
	ConnID  string
	Message RoleRevealMessage
}

// infiltratorCount returns how many Infiltrators accompany the Leader.
func infiltratorCount(n int) int {
	switch {
	case n <= 6:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// AssignRoles picks one Leader and infiltratorCount(n) Infiltrators from a
// uniform permutation of roster and makes everyone else a Loyalist. Roster
// order is not changed. It returns one private reveal per player.
func AssignRoles(roster []*Player, shuffle ShuffleFunc) ([]Reveal, error) {
	n := len(roster)
	if n < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	if n > MaxPlayers {
		return nil, ErrRosterFull
	}

	if shuffle == nil {
		shuffle = defaultShuffle
	}

	perm := make([]*Player, n)
	copy(perm, roster)
	shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	k := infiltratorCount(n)
	leader := perm[0]
	infiltrators := perm[1 : 1+k]

	for _, p := range roster {
		p.Role = RoleLoyalist
		p.Faction = FactionLoyalist
	}

	leader.Role = RoleLeader
	leader.Faction = FactionInfiltrator

	for _, p := range infiltrators {
		p.Role = RoleInfiltrator
		p.Faction = FactionInfiltrator
	}

	reveals := make([]Reveal, 0, n)

	if k == 1 {
		spy := infiltrators[0]

		reveals = append(reveals,
			Reveal{ConnID: leader.ConnID, Message: RoleRevealMessage{
				Type:    TypeRoleReveal,
				Role:    leader.Role,
				Faction: leader.Faction,
				Info:    "Infiltrator: " + spy.Name,
				Allies:  []string{spy.Name},
			}},
			Reveal{ConnID: spy.ConnID, Message: RoleRevealMessage{
				Type:    TypeRoleReveal,
				Role:    spy.Role,
				Faction: spy.Faction,
				Info:    "Leader: " + leader.Name,
				Leader:  leader.Name,
			}},
		)
	} else {
		for _, p := range infiltrators {
			others := make([]string, 0, k-1)
			for _, o := range infiltrators {
				if o != p {
					others = append(others, o.Name)
				}
			}

			reveals = append(reveals, Reveal{ConnID: p.ConnID, Message: RoleRevealMessage{
				Type:    TypeRoleReveal,
				Role:    p.Role,
				Faction: p.Faction,
				Info:    "Leader: " + leader.Name + ". Infiltrators: " + strings.Join(others, ", "),
				Leader:  leader.Name,
				Allies:  others,
			}})
		}

		reveals = append(reveals, Reveal{ConnID: leader.ConnID, Message: RoleRevealMessage{
			Type:    TypeRoleReveal,
			Role:    leader.Role,
			Faction: leader.Faction,
			Info:    "You have infiltrators, but you do not know who they are.",
		}})
	}

	for _, p := range roster {
		if p.Role != RoleLoyalist {
			continue
		}

		reveals = append(reveals, Reveal{ConnID: p.ConnID, Message: RoleRevealMessage{
			Type:    TypeRoleReveal,
			Role:    p.Role,
			Faction: p.Faction,
			Info:    "Enact five Tradition policies or expel the Leader.",
		}})
	}

	return reveals, nil
}
