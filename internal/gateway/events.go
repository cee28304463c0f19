// Package gateway is the engine's only external surface: outbound events
// pushed per room or per player, and inbound actions arriving over one
// persistent websocket per player.
package gateway

import (
	"camelot/internal/game"
)

// EventType names an outbound event
type EventType string

const (
	EventRoomCreated     EventType = "room_created"
	EventPlayerJoined    EventType = "player_joined"
	EventGameStarted     EventType = "game_started"
	EventUpdateGameState EventType = "update_gamestate"
	EventVoteResult      EventType = "vote_result"
	EventQuestResult     EventType = "quest_result"
	EventGameOver        EventType = "game_over"
	EventError           EventType = "error"
)

// Event is the wire envelope pushed to clients
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// PlayerInfo is the public view of a seated player
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// RoomCreatedData answers a create_room action, to the creator only
type RoomCreatedData struct {
	RoomID  string       `json:"roomId"`
	Players []PlayerInfo `json:"players"`
}

// PlayerJoinedData carries the updated roster to the whole room
type PlayerJoinedData struct {
	Players []PlayerInfo `json:"players"`
}

// GameStartedData is unicast per player; role and knowledge differ
// per recipient.
type GameStartedData struct {
	Role        game.RoleType `json:"role"`
	Knowledge   []string      `json:"knowledge"`
	QuestConfig []int         `json:"questConfig"`
	PlayerCount int           `json:"playerCount"`
}

// GameStateData is the room-wide phase snapshot
type GameStateData struct {
	Phase         game.Phase `json:"phase"`
	King          string     `json:"king,omitempty"`
	CurrentQuest  int        `json:"currentQuest,omitempty"`
	QuestResults  []bool     `json:"questResults"`
	RequiredCount int        `json:"requiredCount,omitempty"`
	ProposedTeam  []string   `json:"proposedTeam,omitempty"`
	TimerEnd      int64      `json:"timerEnd,omitempty"`  // unix millis
	Timestamp     int64      `json:"timestamp,omitempty"` // unix millis, for client timer sync
}

// VoteView is one player's vote in the public tally
type VoteView struct {
	Name string `json:"name"`
	Vote string `json:"vote"` // "APPROVE" or "REJECT"
}

// VoteResultData is broadcast once every seated player has voted
type VoteResultData struct {
	Passed   bool       `json:"passed"`
	Votes    []VoteView `json:"votes"`
	Approves int        `json:"approves"`
	Rejects  int        `json:"rejects"`
}

// QuestResultData is broadcast once every team member has moved
type QuestResultData struct {
	Success   bool `json:"success"`
	FailCount int  `json:"failCount"`
}

// GameOverData ends the game for the whole room
type GameOverData struct {
	Winner game.Winner `json:"winner"`
	Reason string      `json:"reason"`
}

// ErrorData goes to the originating sender only
type ErrorData struct {
	Message string `json:"message"`
}

// ErrorEvent wraps an error message for the sender.
func ErrorEvent(message string) Event {
	return Event{Type: EventError, Data: ErrorData{Message: message}}
}

// Roster builds the public roster in seat order. Caller holds the room lock.
func Roster(r *game.Room) []PlayerInfo {
	players := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, PlayerInfo{ID: p.ID, Name: p.Name, IsHost: p.IsHost})
	}
	return players
}
