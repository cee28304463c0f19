// Package engine owns the authoritative game state machine. Every inbound
// action is validated against the room's phase and the sender's identity,
// runs to completion under the room lock, and becomes visible outside
// only through broadcast events.
package engine

import (
	"time"

	"go.uber.org/zap"

	"camelot/internal/config"
	"camelot/internal/game"
	"camelot/internal/gateway"
	"camelot/internal/store"
)

// End-of-game reasons, broadcast verbatim to clients.
const (
	reasonFiveFailedVotes      = "5 failed votes"
	reasonThreeQuestsFailed    = "3 missions failed"
	reasonThreeQuestsSucceeded = "three quests succeeded"
	reasonTargetEliminated     = "target eliminated"
	reasonEliminationFailed    = "elimination failed"
)

// Broadcaster pushes events out of the engine
type Broadcaster interface {
	Unicast(playerID string, e gateway.Event)
	Broadcast(playerIDs []string, e gateway.Event)
}

// Engine drives all rooms. It holds no per-room state of its own; rooms
// live in the store and scheduled tasks carry only a room code plus the
// generation they were scheduled under.
type Engine struct {
	store *store.RoomStore
	bus   Broadcaster
	cfg   *config.Config
	log   *zap.Logger
}

// New creates an engine
func New(s *store.RoomStore, bus Broadcaster, cfg *config.Config, log *zap.Logger) *Engine {
	return &Engine{
		store: s,
		bus:   bus,
		cfg:   cfg,
		log:   log,
	}
}

// scheduleTeamSelection re-enters team selection after a delay. The task
// is a silent no-op if the room is gone or its generation moved on.
func (e *Engine) scheduleTeamSelection(code string, fromGen uint64, delay time.Duration) {
	time.AfterFunc(delay, func() {
		e.enterTeamSelection(code, fromGen)
	})
}

func (e *Engine) enterTeamSelection(code string, fromGen uint64) {
	room, err := e.store.Get(code)
	if err != nil {
		return // room retired since scheduling
	}

	room.Mu.Lock()
	if room.Generation != fromGen {
		room.Mu.Unlock()
		return // superseded by a newer transition
	}

	room.SetPhase(game.PhaseTeamSelection)
	room.ProposedTeam = nil
	room.Votes = nil
	room.QuestMoves = nil
	room.TimerEnd = time.Now().Add(e.cfg.Game.TeamSelectionWindow)

	state := gateway.GameStateData{
		Phase:         game.PhaseTeamSelection,
		King:          room.King().ID,
		CurrentQuest:  room.CurrentQuest,
		QuestResults:  questResults(room),
		RequiredCount: room.RequiredTeamSize(),
		TimerEnd:      room.TimerEnd.UnixMilli(),
	}
	seats := room.SeatIDs()
	room.Mu.Unlock()

	e.log.Info("team selection",
		zap.String("room", code),
		zap.String("king", state.King),
		zap.Int("quest", state.CurrentQuest))
	e.bus.Broadcast(seats, gateway.Event{Type: gateway.EventUpdateGameState, Data: state})
}

// finishLocked ends the game. Caller holds the room lock and broadcasts
// the returned event after unlocking.
func (e *Engine) finishLocked(room *game.Room, winner game.Winner, reason string) gateway.Event {
	room.SetPhase(game.PhaseEnd)
	e.log.Info("game over",
		zap.String("room", room.Code),
		zap.String("winner", string(winner)),
		zap.String("reason", reason))
	return gateway.Event{Type: gateway.EventGameOver, Data: gateway.GameOverData{Winner: winner, Reason: reason}}
}

// questResults copies the results so marshalling never races a later
// append. Caller holds the room lock.
func questResults(room *game.Room) []bool {
	return append([]bool{}, room.QuestResults...)
}
