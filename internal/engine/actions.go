package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"camelot/internal/game"
	"camelot/internal/gateway"
)

// CreateRoom registers a new room with the sender as host and returns
// its code.
func (e *Engine) CreateRoom(playerID, hostName string, playerCount int) (string, error) {
	host := game.NewPlayer(playerID, hostName, uuid.NewString())

	room, err := e.store.Create(host, playerCount)
	if err != nil {
		return "", err
	}

	room.Mu.RLock()
	data := gateway.RoomCreatedData{RoomID: room.Code, Players: gateway.Roster(room)}
	room.Mu.RUnlock()

	e.log.Info("room created",
		zap.String("room", room.Code),
		zap.String("host", hostName),
		zap.Int("targetCount", playerCount))
	e.bus.Unicast(playerID, gateway.Event{Type: gateway.EventRoomCreated, Data: data})
	return room.Code, nil
}

// JoinRoom seats a player in a lobby. Join order defines rotation order.
func (e *Engine) JoinRoom(playerID, code, playerName string) error {
	room, err := e.store.Get(code)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.Phase != game.PhaseLobby {
		room.Mu.Unlock()
		return game.ErrGameInProgress
	}
	if room.Full() {
		room.Mu.Unlock()
		return game.ErrRoomFull
	}

	room.Players = append(room.Players, game.NewPlayer(playerID, playerName, uuid.NewString()))
	roster := gateway.Roster(room)
	seats := room.SeatIDs()
	room.Mu.Unlock()

	e.log.Info("player joined", zap.String("room", code), zap.String("player", playerName))
	e.bus.Broadcast(seats, gateway.Event{Type: gateway.EventPlayerJoined, Data: gateway.PlayerJoinedData{Players: roster}})
	return nil
}

// StartGame deals roles, computes per-player knowledge, picks a random
// initial king and opens the night reveal. Host only, full room only.
func (e *Engine) StartGame(playerID, code string) error {
	room, err := e.store.Get(code)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	sender := room.PlayerByID(playerID)
	if sender == nil {
		room.Mu.Unlock()
		return game.ErrNotSeated
	}
	if !sender.IsHost {
		room.Mu.Unlock()
		return game.ErrNotHost
	}
	if room.Phase != game.PhaseLobby {
		room.Mu.Unlock()
		return game.ErrGameInProgress
	}
	if !room.Full() {
		room.Mu.Unlock()
		return game.ErrRoomNotFull
	}

	count := len(room.Players)
	roles, err := game.AssignRoles(count)
	if err != nil {
		room.Mu.Unlock()
		return err
	}
	for i, p := range room.Players {
		p.Role = roles[i]
	}
	// Knowledge is derived exactly once, after every role is dealt.
	for _, p := range room.Players {
		p.Knowledge = game.KnowledgeOf(p, room.Players)
	}

	room.QuestConfig, _ = game.QuestConfigFor(count)
	room.KingIndex = rand.Intn(count)
	room.CurrentQuest = 1
	room.QuestResults = nil
	room.FailedVotes = 0
	room.SetPhase(game.PhaseNight)
	gen := room.Generation

	reveals := make(map[string]gateway.GameStartedData, count)
	for _, p := range room.Players {
		reveals[p.ID] = gateway.GameStartedData{
			Role:        p.Role,
			Knowledge:   p.Knowledge,
			QuestConfig: append([]int{}, room.QuestConfig...),
			PlayerCount: count,
		}
	}
	state := gateway.GameStateData{
		Phase:        game.PhaseNight,
		King:         room.King().ID,
		CurrentQuest: 1,
		QuestResults: []bool{},
		Timestamp:    time.Now().UnixMilli(),
	}
	seats := room.SeatIDs()
	room.Mu.Unlock()

	e.log.Info("game started", zap.String("room", code), zap.Int("players", count))
	for id, reveal := range reveals {
		e.bus.Unicast(id, gateway.Event{Type: gateway.EventGameStarted, Data: reveal})
	}
	e.bus.Broadcast(seats, gateway.Event{Type: gateway.EventUpdateGameState, Data: state})

	e.scheduleTeamSelection(code, gen, e.cfg.Game.NightDuration)
	return nil
}

// ProposeTeam records the king's team and opens the vote.
func (e *Engine) ProposeTeam(playerID, code string, teamIDs []string) error {
	room, err := e.store.Get(code)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.Phase != game.PhaseTeamSelection {
		room.Mu.Unlock()
		return game.ErrWrongPhase
	}
	if room.King().ID != playerID {
		room.Mu.Unlock()
		return game.ErrNotKing
	}
	if len(teamIDs) != room.RequiredTeamSize() {
		room.Mu.Unlock()
		return game.ErrBadTeamSize
	}
	seen := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if room.PlayerByID(id) == nil {
			room.Mu.Unlock()
			return game.ErrUnknownPlayer
		}
		if seen[id] {
			room.Mu.Unlock()
			return game.ErrBadTeamSize
		}
		seen[id] = true
	}

	room.ProposedTeam = append([]string{}, teamIDs...)
	room.Votes = make(map[string]bool)
	room.SetPhase(game.PhaseVote)

	state := gateway.GameStateData{
		Phase:        game.PhaseVote,
		King:         playerID,
		CurrentQuest: room.CurrentQuest,
		QuestResults: questResults(room),
		ProposedTeam: append([]string{}, room.ProposedTeam...),
	}
	seats := room.SeatIDs()
	room.Mu.Unlock()

	e.log.Info("team proposed", zap.String("room", code), zap.Strings("team", teamIDs))
	e.bus.Broadcast(seats, gateway.Event{Type: gateway.EventUpdateGameState, Data: state})
	return nil
}

// SubmitVote accumulates one player's vote; a resubmission overwrites.
// The round resolves only once every seated player has voted.
func (e *Engine) SubmitVote(playerID, code string, vote bool) error {
	room, err := e.store.Get(code)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.Phase != game.PhaseVote {
		room.Mu.Unlock()
		return game.ErrWrongPhase
	}
	if room.PlayerByID(playerID) == nil {
		room.Mu.Unlock()
		return game.ErrNotSeated
	}
	if room.Votes == nil {
		// Tallied already; the room is waiting out the result delay.
		room.Mu.Unlock()
		return game.ErrVotingClosed
	}

	room.Votes[playerID] = vote
	if len(room.Votes) < len(room.Players) {
		room.Mu.Unlock()
		return nil
	}

	outcome := game.TallyVotes(room.Players, room.Votes)
	room.Votes = nil
	seats := room.SeatIDs()

	events := []gateway.Event{{Type: gateway.EventVoteResult, Data: voteResult(outcome)}}
	var followUp func()

	if outcome.Passed {
		room.QuestMoves = make(map[string]bool)
		room.FailedVotes = 0
		room.SetPhase(game.PhaseQuest)
		events = append(events, gateway.Event{Type: gateway.EventUpdateGameState, Data: gateway.GameStateData{
			Phase:        game.PhaseQuest,
			King:         room.King().ID,
			CurrentQuest: room.CurrentQuest,
			QuestResults: questResults(room),
			ProposedTeam: append([]string{}, room.ProposedTeam...),
		}})
	} else {
		room.FailedVotes++
		if room.FailedVotes >= game.MaxFailedVotes {
			events = append(events, e.finishLocked(room, game.WinnerEvil, reasonFiveFailedVotes))
		} else {
			room.AdvanceKing()
			room.Invalidate()
			gen := room.Generation
			followUp = func() {
				e.scheduleTeamSelection(code, gen, e.cfg.Game.VoteResultDelay)
			}
		}
	}
	room.Mu.Unlock()

	e.log.Info("vote resolved",
		zap.String("room", code),
		zap.Bool("passed", outcome.Passed),
		zap.Int("approves", outcome.Approvals),
		zap.Int("rejects", outcome.Rejections))
	for _, ev := range events {
		e.bus.Broadcast(seats, ev)
	}
	if followUp != nil {
		followUp()
	}
	return nil
}

// SubmitQuestMove accumulates one team member's secret move. Submissions
// from players outside the team carry no stake and are dropped silently.
func (e *Engine) SubmitQuestMove(playerID, code string, move bool) error {
	room, err := e.store.Get(code)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.Phase != game.PhaseQuest {
		room.Mu.Unlock()
		return game.ErrWrongPhase
	}
	if !room.OnTeam(playerID) {
		room.Mu.Unlock()
		return nil
	}
	if room.QuestMoves == nil {
		room.Mu.Unlock()
		return game.ErrWrongPhase
	}

	room.QuestMoves[playerID] = move
	if len(room.QuestMoves) < len(room.ProposedTeam) {
		room.Mu.Unlock()
		return nil
	}

	success, failCount := game.ResolveQuest(room.QuestMoves)
	room.QuestMoves = nil
	room.QuestResults = append(room.QuestResults, success)
	room.CurrentQuest++
	seats := room.SeatIDs()

	events := []gateway.Event{{Type: gateway.EventQuestResult, Data: gateway.QuestResultData{
		Success:   success,
		FailCount: failCount,
	}}}
	var followUp func()

	good, evil := room.WinCounts()
	switch {
	case evil >= game.QuestsToWin:
		events = append(events, e.finishLocked(room, game.WinnerEvil, reasonThreeQuestsFailed))
	case good >= game.QuestsToWin:
		if room.PlayerByRole(game.RoleMordred) == nil {
			// Generic configs seat no Mordred, so there is nobody to
			// act in the assassination phase. Good wins outright.
			events = append(events, e.finishLocked(room, game.WinnerGood, reasonThreeQuestsSucceeded))
		} else {
			room.SetPhase(game.PhaseAssassination)
			events = append(events, gateway.Event{Type: gateway.EventUpdateGameState, Data: gateway.GameStateData{
				Phase:        game.PhaseAssassination,
				CurrentQuest: room.CurrentQuest,
				QuestResults: questResults(room),
			}})
		}
	default:
		room.AdvanceKing()
		room.Invalidate()
		gen := room.Generation
		followUp = func() {
			e.scheduleTeamSelection(code, gen, e.cfg.Game.QuestResultDelay)
		}
	}
	room.Mu.Unlock()

	e.log.Info("quest resolved",
		zap.String("room", code),
		zap.Bool("success", success),
		zap.Int("failCount", failCount))
	for _, ev := range events {
		e.bus.Broadcast(seats, ev)
	}
	if followUp != nil {
		followUp()
	}
	return nil
}

// Assassinate resolves the final phase: Mordred names a target, and the
// game ends for evil if it was Merlin, for good otherwise.
func (e *Engine) Assassinate(playerID, code, targetID string) error {
	room, err := e.store.Get(code)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if room.Phase != game.PhaseAssassination {
		room.Mu.Unlock()
		return game.ErrWrongPhase
	}
	sender := room.PlayerByID(playerID)
	if sender == nil {
		room.Mu.Unlock()
		return game.ErrNotSeated
	}
	if sender.Role != game.RoleMordred {
		room.Mu.Unlock()
		return game.ErrNotAssassin
	}
	target := room.PlayerByID(targetID)
	if target == nil {
		room.Mu.Unlock()
		return game.ErrUnknownPlayer
	}

	var ev gateway.Event
	if target.Role == game.RoleMerlin {
		ev = e.finishLocked(room, game.WinnerEvil, reasonTargetEliminated)
	} else {
		ev = e.finishLocked(room, game.WinnerGood, reasonEliminationFailed)
	}
	seats := room.SeatIDs()
	room.Mu.Unlock()

	e.bus.Broadcast(seats, ev)
	return nil
}

// Disconnect handles a dropped connection. A lobby seat is released and
// the roster rebroadcast; once the game has started the seat is kept
// (there is no reconnection support).
func (e *Engine) Disconnect(playerID, code string) {
	if code == "" {
		return
	}
	room, err := e.store.Get(code)
	if err != nil {
		return
	}

	room.Mu.Lock()
	if room.Phase != game.PhaseLobby {
		room.Mu.Unlock()
		return
	}

	removed := false
	wasHost := false
	for i, p := range room.Players {
		if p.ID == playerID {
			wasHost = p.IsHost
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		room.Mu.Unlock()
		return
	}

	if len(room.Players) == 0 {
		room.Mu.Unlock()
		e.store.Remove(code)
		e.log.Info("empty room removed", zap.String("room", code))
		return
	}
	if wasHost {
		room.Players[0].IsHost = true
	}
	roster := gateway.Roster(room)
	seats := room.SeatIDs()
	room.Mu.Unlock()

	e.log.Info("player left lobby", zap.String("room", code), zap.String("player", playerID))
	e.bus.Broadcast(seats, gateway.Event{Type: gateway.EventPlayerJoined, Data: gateway.PlayerJoinedData{Players: roster}})
}

// voteResult converts a tally into its wire form.
func voteResult(outcome game.VoteOutcome) gateway.VoteResultData {
	votes := make([]gateway.VoteView, 0, len(outcome.Detail))
	for _, d := range outcome.Detail {
		v := "REJECT"
		if d.Approved {
			v = "APPROVE"
		}
		votes = append(votes, gateway.VoteView{Name: d.Name, Vote: v})
	}
	return gateway.VoteResultData{
		Passed:   outcome.Passed,
		Votes:    votes,
		Approves: outcome.Approvals,
		Rejects:  outcome.Rejections,
	}
}
