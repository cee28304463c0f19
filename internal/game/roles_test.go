package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRoles_SixPlayerMultiset(t *testing.T) {
	for i := 0; i < 50; i++ {
		roles, err := AssignRoles(6)
		require.NoError(t, err)
		require.Len(t, roles, 6)

		counts := make(map[RoleType]int)
		for _, r := range roles {
			counts[r]++
		}

		assert.Equal(t, 1, counts[RoleMordred])
		assert.Equal(t, 1, counts[RoleMinion])
		assert.Equal(t, 1, counts[RoleMerlin])
		assert.Equal(t, 3, counts[RoleServant])
	}
}

func TestAssignRoles_EvilCountPerSize(t *testing.T) {
	tests := []struct {
		count    int
		wantEvil int
	}{
		{5, 2},
		{6, 2}, // Mordred + Minion
		{7, 3},
		{8, 3},
		{9, 3},
		{10, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d players", tt.count), func(t *testing.T) {
			roles, err := AssignRoles(tt.count)
			require.NoError(t, err)
			require.Len(t, roles, tt.count)

			evil := 0
			for _, r := range roles {
				if r.IsEvil() {
					evil++
				}
			}
			assert.Equal(t, tt.wantEvil, evil)
		})
	}
}

func TestAssignRoles_UnsupportedCount(t *testing.T) {
	for _, count := range []int{0, 1, 4, 11, 50} {
		_, err := AssignRoles(count)
		assert.ErrorIs(t, err, ErrUnsupportedCount, "count %d", count)
	}
}

// TestAssignRoles_Uniformity checks that the shuffle places each role on
// each seat with roughly equal frequency. With 6000 trials every
// (seat, role) cell expects 1000 hits with a standard deviation of about
// 29, so a ±150 band is beyond five sigma and the test is stable.
func TestAssignRoles_Uniformity(t *testing.T) {
	const trials = 6000
	const expected = trials / 6
	const tolerance = 150

	seatCounts := make([]map[RoleType]int, 6)
	for i := range seatCounts {
		seatCounts[i] = make(map[RoleType]int)
	}

	for i := 0; i < trials; i++ {
		roles, err := AssignRoles(6)
		require.NoError(t, err)
		for seat, r := range roles {
			seatCounts[seat][r]++
		}
	}

	for seat, counts := range seatCounts {
		for _, role := range []RoleType{RoleMordred, RoleMinion, RoleMerlin} {
			got := counts[role]
			assert.InDelta(t, expected, got, tolerance,
				"role %s on seat %d: got %d, expected about %d", role, seat, got, expected)
		}
		// Three indistinguishable servants expect three times the hits.
		got := counts[RoleServant]
		assert.InDelta(t, 3*expected, got, 3*tolerance,
			"servants on seat %d: got %d", seat, got)
	}
}

func seatedPlayers(roles ...RoleType) []*Player {
	players := make([]*Player, 0, len(roles))
	for i, r := range roles {
		p := NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i), "")
		p.Role = r
		players = append(players, p)
	}
	return players
}

func TestKnowledgeOf_SixPlayerTable(t *testing.T) {
	players := seatedPlayers(RoleMerlin, RoleMordred, RoleMinion, RoleServant, RoleServant, RoleServant)
	merlin, mordred, minion := players[0], players[1], players[2]

	assert.ElementsMatch(t, []string{"Player1", "Player2"}, KnowledgeOf(merlin, players),
		"Merlin sees both evil players")
	assert.Equal(t, []string{"Player2"}, KnowledgeOf(mordred, players),
		"Mordred sees only his minion")
	assert.Empty(t, KnowledgeOf(minion, players),
		"the minion sees nobody, not even Mordred")
	for _, servant := range players[3:] {
		assert.Empty(t, KnowledgeOf(servant, players))
	}
}

func TestKnowledgeOf_GenericEvilSeeEachOther(t *testing.T) {
	players := seatedPlayers(RoleEvil, RoleEvil, RoleServant, RoleServant, RoleServant)

	assert.Equal(t, []string{"Player1"}, KnowledgeOf(players[0], players))
	assert.Equal(t, []string{"Player0"}, KnowledgeOf(players[1], players))
	assert.Empty(t, KnowledgeOf(players[2], players))
}

func TestKnowledgeOf_MerlinSeesGenericEvil(t *testing.T) {
	players := seatedPlayers(RoleMerlin, RoleEvil, RoleEvil, RoleServant, RoleServant)

	assert.ElementsMatch(t, []string{"Player1", "Player2"}, KnowledgeOf(players[0], players))
}
