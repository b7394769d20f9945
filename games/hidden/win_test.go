/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"testing"
)

func TestResolvePower(t *testing.T) {
	for construction := 0; construction <= 6; construction++ {
		for size := MinPlayers; size <= MaxPlayers; size++ {
			want := PowerNone
			switch {
			case (construction == 1 && size >= 9) || (construction == 2 && size >= 7):
				want = PowerInvestigate
			case construction == 3:
				want = PowerPeek
			case construction == 4 || construction == 5:
				want = PowerExpel
			}

			if got := ResolvePower(construction, size); got != want {
				t.Errorf("ResolvePower(%d, %d) = %s, want %s", construction, size, got, want)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		standing Standing
		over     bool
		winner   Faction
	}{
		{
			name:     "nothing yet",
			standing: Standing{Enacted: Enacted{Tradition: 4, Construction: 5}},
		},
		{
			name:     "leader elected below threshold",
			standing: Standing{Enacted: Enacted{Construction: 2}, LeaderElected: true},
		},
		{
			name:     "leader elected at threshold with no tradition",
			standing: Standing{Enacted: Enacted{Construction: 3}, LeaderElected: true},
			over:     true,
			winner:   FactionInfiltrator,
		},
		{
			name:     "tradition track full",
			standing: Standing{Enacted: Enacted{Tradition: 5, Construction: 2}},
			over:     true,
			winner:   FactionLoyalist,
		},
		{
			name:     "construction track full",
			standing: Standing{Enacted: Enacted{Tradition: 1, Construction: 6}},
			over:     true,
			winner:   FactionInfiltrator,
		},
		{
			name:     "leader expelled",
			standing: Standing{Enacted: Enacted{Construction: 4}, LeaderExpelled: true},
			over:     true,
			winner:   FactionLoyalist,
		},
		{
			name:     "election win outranks tradition",
			standing: Standing{Enacted: Enacted{Tradition: 5, Construction: 3}, LeaderElected: true},
			over:     true,
			winner:   FactionInfiltrator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, over := Evaluate(tt.standing)
			if over != tt.over {
				t.Fatalf("over = %v, want %v", over, tt.over)
			}
			if over && o.Winner != tt.winner {
				t.Fatalf("winner = %s, want %s", o.Winner, tt.winner)
			}
		})
	}
}
