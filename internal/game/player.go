package game

import (
	"time"
)

// Player represents a seated player in a room
type Player struct {
	ID        string
	Name      string
	IsHost    bool
	Role      RoleType // empty until the game starts
	Knowledge []string // names this player is entitled to see, computed once at start
	JoinedAt  time.Time
	SessionID string // durable identity, distinct from the transport connection
}

// NewPlayer creates a new player
func NewPlayer(id, name, sessionID string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		SessionID: sessionID,
		JoinedAt:  time.Now(),
	}
}
