package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrGameInProgress   = errors.New("game already started")
	ErrRoomNotFull      = errors.New("waiting for more players")
	ErrUnsupportedCount = errors.New("unsupported player count")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotKing          = errors.New("only the king can propose a team")
	ErrNotAssassin      = errors.New("only Mordred can choose a target")
	ErrNotSeated        = errors.New("player is not seated in this room")
	ErrWrongPhase       = errors.New("action not allowed in the current phase")
	ErrBadTeamSize      = errors.New("proposed team has the wrong size")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrVotingClosed     = errors.New("voting is not open")
)
