package game

import (
	"sync"
	"time"
)

// Phase represents the current phase of a room's game
type Phase string

const (
	PhaseLobby         Phase = "LOBBY"
	PhaseNight         Phase = "NIGHT"
	PhaseTeamSelection Phase = "TEAM_SELECTION"
	PhaseVote          Phase = "VOTE"
	PhaseQuest         Phase = "QUEST"
	PhaseAssassination Phase = "ASSASSINATION"
	PhaseEnd           Phase = "END"
)

// Winner identifies the side a finished game went to.
type Winner string

const (
	WinnerGood Winner = "GOOD"
	WinnerEvil Winner = "EVIL"
)

// Room is the authoritative state of one game. All mutation happens under
// Mu, held by the acting handler for the whole action so every inbound
// action and fired timer is atomic with respect to the room.
//
// Players is ordered: join order is rotation order and never changes.
type Room struct {
	Mu sync.RWMutex

	Code        string
	TargetCount int
	Phase       Phase
	Players     []*Player

	KingIndex    int
	CurrentQuest int      // 1-based
	QuestResults []bool   // one entry per completed quest, true = success
	QuestConfig  []int    // required team size per quest, fixed at start
	FailedVotes  int
	ProposedTeam []string        // player IDs, size == QuestConfig[CurrentQuest-1]
	Votes        map[string]bool // nil while voting is closed
	QuestMoves   map[string]bool // nil while no quest is underway
	TimerEnd     time.Time       // advisory team-selection deadline

	// Generation is bumped on every state change a scheduled task could
	// race with. Timers capture it at scheduling time and no-op on mismatch.
	Generation uint64

	CreatedAt time.Time
	EndedAt   time.Time
}

// NewRoom creates a room in the lobby phase with the host seated first.
func NewRoom(code string, targetCount int, host *Player) *Room {
	host.IsHost = true
	return &Room{
		Code:        code,
		TargetCount: targetCount,
		Phase:       PhaseLobby,
		Players:     []*Player{host},
		CreatedAt:   time.Now(),
	}
}

// The methods below do not lock; the caller holds Mu.

// PlayerByID returns the seated player with the given ID, or nil.
func (r *Room) PlayerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByRole returns the first seated player holding the role, or nil.
func (r *Room) PlayerByRole(role RoleType) *Player {
	for _, p := range r.Players {
		if p.Role == role {
			return p
		}
	}
	return nil
}

// King returns the player whose turn it is to propose a team.
func (r *Room) King() *Player {
	return r.Players[r.KingIndex]
}

// AdvanceKing rotates proposal authority to the next seat.
func (r *Room) AdvanceKing() {
	r.KingIndex = (r.KingIndex + 1) % len(r.Players)
}

// RequiredTeamSize returns the team size for the current quest.
func (r *Room) RequiredTeamSize() int {
	return r.QuestConfig[r.CurrentQuest-1]
}

// OnTeam reports whether the player is part of the proposed team.
func (r *Room) OnTeam(id string) bool {
	for _, member := range r.ProposedTeam {
		if member == id {
			return true
		}
	}
	return false
}

// SeatIDs returns the IDs of all seated players in rotation order.
func (r *Room) SeatIDs() []string {
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}

// Full reports whether the room has reached its configured size.
func (r *Room) Full() bool {
	return len(r.Players) >= r.TargetCount
}

// WinCounts tallies completed quests per side.
func (r *Room) WinCounts() (good, evil int) {
	for _, success := range r.QuestResults {
		if success {
			good++
		} else {
			evil++
		}
	}
	return good, evil
}

// SetPhase moves the room to a new phase and invalidates pending timers.
func (r *Room) SetPhase(p Phase) {
	r.Phase = p
	r.Generation++
	if p == PhaseEnd {
		r.EndedAt = time.Now()
	}
}

// Invalidate bumps the generation without a phase change, for state
// changes (like a rejected vote) that must cancel in-flight timers.
func (r *Room) Invalidate() {
	r.Generation++
}
