package game

import (
	"math/rand"
)

// RoleType represents a hidden role
type RoleType string

const (
	RoleMerlin  RoleType = "MERLIN"
	RoleMordred RoleType = "MORDRED"
	RoleMinion  RoleType = "MINION"
	RoleServant RoleType = "SERVANT"
	// RoleEvil is the generic evil role used for every supported
	// player count except six, where the named roles are dealt.
	RoleEvil RoleType = "EVIL"
)

// IsEvil reports whether the role belongs to the evil side.
func (r RoleType) IsEvil() bool {
	switch r {
	case RoleMordred, RoleMinion, RoleEvil:
		return true
	}
	return false
}

// MinPlayers and MaxPlayers bound the supported room sizes.
const (
	MinPlayers = 5
	MaxPlayers = 10
)

// SupportedCount reports whether n players can play.
func SupportedCount(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}

// AssignRoles deals one role per seat, uniformly shuffled.
//
// For six players the fixed set is dealt: Mordred, one Minion, Merlin and
// three Servants. For any other supported count ceil(n/3) seats are generic
// evil and the rest Servants. The shuffle is Fisher-Yates via rand.Shuffle,
// so every permutation over seats is equally likely.
func AssignRoles(count int) ([]RoleType, error) {
	if !SupportedCount(count) {
		return nil, ErrUnsupportedCount
	}

	var roles []RoleType
	if count == 6 {
		roles = []RoleType{RoleMordred, RoleMinion, RoleMerlin, RoleServant, RoleServant, RoleServant}
	} else {
		evil := (count + 2) / 3
		roles = make([]RoleType, 0, count)
		for i := 0; i < evil; i++ {
			roles = append(roles, RoleEvil)
		}
		for i := evil; i < count; i++ {
			roles = append(roles, RoleServant)
		}
	}

	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	return roles, nil
}

// KnowledgeOf derives the names whose allegiance the given player may see.
//
// Merlin sees every evil player. Mordred sees his Minion, but the Minion
// sees nobody. Generic evil players see each other. Everyone else sees
// nothing.
func KnowledgeOf(p *Player, all []*Player) []string {
	names := []string{}
	switch p.Role {
	case RoleMerlin:
		for _, other := range all {
			if other.ID != p.ID && other.Role.IsEvil() {
				names = append(names, other.Name)
			}
		}
	case RoleMordred:
		for _, other := range all {
			if other.Role == RoleMinion {
				names = append(names, other.Name)
			}
		}
	case RoleEvil:
		for _, other := range all {
			if other.ID != p.ID && other.Role == RoleEvil {
				names = append(names, other.Name)
			}
		}
	}
	return names
}
