package game

import (
	"context"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/samber/lo"
)

const archiveTimeout = 5 * time.Second

// =============================================================================
// GAME FLOW - PHASE ORCHESTRATION
// =============================================================================

// tryAdvance moves the room on when every active participant is ready.
// Caller holds room.Mu.
func (e *Engine) tryAdvance(room *internal.Room) bool {
	if !room.CanAdvance() {
		return false
	}
	e.advancePhase(room, internal.ReasonAllReady)
	return true
}

// advancePhase is the only writer of room.Phase.Current. Caller holds
// room.Mu.
func (e *Engine) advancePhase(room *internal.Room, reason string) {
	from := room.Phase.Current
	next := from.Next(room.Settings.PlayCutscenes)

	// 1. Stop the outstanding timer before anything else
	e.cancelPhaseTimer(room)

	// 2. Every transition starts with nobody ready
	room.ResetReady()

	e.notify.Broadcast(room.Id, event(internal.EventPhaseEnded, internal.PhaseEndedData{
		Phase:  from,
		Reason: reason,
	}))

	// 3. The outcome is needed by the choice cutscene, so it is settled here
	if from == internal.PhaseVoting {
		room.Result = e.tallyRound(room)
	}

	// 4. Entry work for the next phase
	room.Phase.Current = next
	switch next {
	case internal.PhaseLobby:
		e.enterLobby(room, from)
	case internal.PhaseDrawing:
		if !e.enterDrawing(room) {
			room.Phase.Current = internal.PhaseLobby
			e.enterLobby(room, from)
		}
	case internal.PhaseVoting:
		e.startPhaseTimer(room, room.Settings.PhaseDuration(next))
	case internal.PhaseScoreboard:
		e.enterScoreboard(room)
	default:
		if next.IsCutscene() {
			e.startPhaseTimer(room, room.Settings.PhaseDuration(next))
		}
	}

	e.log.Info().
		Str("room", room.Id).
		Str("from", string(from)).
		Str("to", string(room.Phase.Current)).
		Str("reason", reason).
		Int("round", room.RoundNumber).
		Msg("[advancePhase] phase changed")

	e.sendPhase(room)
	e.broadcastParticipants(room)
	e.publishRoomList()
}

// enterLobby clears the finished round. After the last configured round the
// scores start over as well.
func (e *Engine) enterLobby(room *internal.Room, from internal.GamePhase) {
	gameOver := from == internal.PhaseScoreboard && room.RoundNumber >= room.Settings.Rounds

	room.ResetRoundState()
	room.Requirements = nil
	for _, state := range room.PruneRemoved() {
		e.notify.Leave(room.Id, state.Player.UserId)
		if !state.Player.IsConnected() && state.Player.LastRoomID() == "" {
			e.players.Remove(state.Player.UserId)
		}
	}
	if gameOver {
		room.ResetScores()
		e.log.Info().Str("room", room.Id).Msg("[enterLobby] game over, scores reset")
	}
}

// enterDrawing picks the evil participant and deals the requirements. It
// reports false when nobody is left to play.
func (e *Engine) enterDrawing(room *internal.Room) bool {
	active := room.ActiveParticipants()
	if len(active) == 0 {
		e.log.Warn().Str("room", room.Id).Msg("[enterDrawing] no active participants, back to lobby")
		return false
	}

	pool, err := RequirementPool(e.catalog, room.Settings)
	if err != nil {
		e.log.Error().Err(err).Str("room", room.Id).Msg("[enterDrawing] cannot build requirement pool")
		return false
	}

	room.RoundNumber++
	room.Requirements = pool
	room.Result = nil

	evil := lo.Sample(active)
	for _, state := range room.Participants {
		state.IsEvil = state == evil
		state.Artifact = ""
		state.Vote = ""
		state.Requirements = nil
		if state.Removed {
			continue
		}
		state.Requirements = AssignRequirements(pool, room.Settings, state.IsEvil)
	}

	e.log.Info().
		Str("room", room.Id).
		Int("round", room.RoundNumber).
		Str("evil", evil.Player.UserId).
		Strs("pool", pool).
		Msg("[enterDrawing] round dealt")

	e.startPhaseTimer(room, room.Settings.PhaseDuration(internal.PhaseDrawing))
	return true
}

func (e *Engine) enterScoreboard(room *internal.Room) {
	if room.Result == nil {
		room.Result = e.tallyRound(room)
	}
	room.Result.Awarded = ApplyScores(room.Participants, room.Result)
	room.Phase.Deadline = nil

	if e.archive == nil {
		return
	}
	record := internal.RoundRecord{
		RoomId:     room.Id,
		RoomName:   room.Name,
		Round:      room.Result.Round,
		Outcome:    room.Result.Outcome,
		EvilId:     room.Result.EvilID,
		Players:    len(room.Snapshots()),
		Awarded:    room.Result.Awarded,
		Scores:     make(map[string]int),
		FinishedAt: time.Now(),
	}
	for _, state := range room.Participants {
		record.Scores[state.Player.UserId] = state.Score
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := e.archive.RecordRound(ctx, record); err != nil {
			e.log.Error().Err(err).Str("room", record.RoomId).Int("round", record.Round).
				Msg("[enterScoreboard] failed to archive round")
		}
	}()
}

// =============================================================================
// PHASE PAYLOADS
// =============================================================================

// phasePayload builds what a participant sees for the current phase. state
// may be nil for the shared payloads. Caller holds room.Mu.
func (e *Engine) phasePayload(room *internal.Room, state *internal.PlayerRoundState) any {
	switch room.Phase.Current {
	case internal.PhaseLobby:
		return internal.LobbyMessage{
			Participants: room.Snapshots(),
			Settings:     room.Settings,
			HostId:       room.HostID(),
			RoundNumber:  room.RoundNumber,
		}
	case internal.PhaseDrawing:
		msg := internal.DrawingMessage{
			MaskDescriptions: []string{},
			PhaseEndsAt:      lo.FromPtr(room.Phase.Deadline),
			RoundNumber:      room.RoundNumber,
		}
		if state != nil {
			msg.IsPlayerEvil = state.IsEvil
			if state.Requirements != nil {
				msg.MaskDescriptions = state.Requirements
			}
		}
		return msg
	case internal.PhaseVoting:
		return internal.VotingMessage{
			Masks:        room.Artifacts(),
			Participants: room.Snapshots(),
			PhaseEndsAt:  lo.FromPtr(room.Phase.Deadline),
		}
	case internal.PhaseScoreboard:
		return internal.ScoreboardMessage{
			Participants: room.Snapshots(),
			Result:       room.Result,
			RoundNumber:  room.RoundNumber,
			Rounds:       room.Settings.Rounds,
			GameOver:     room.RoundNumber >= room.Settings.Rounds,
		}
	case internal.PhaseCutsceneOpening, internal.PhaseCutsceneMakeTheMask, internal.PhaseCutsceneTheChoice:
		return internal.CutsceneMessage{
			PlayAlternativeCutscene: room.Phase.Current == internal.PhaseCutsceneTheChoice &&
				room.Result != nil && room.Result.Outcome == internal.OutcomeEvilWin,
			PhaseEndsAt: room.Phase.Deadline,
		}
	}
	return nil
}

func (e *Engine) phaseEvent(room *internal.Room, state *internal.PlayerRoundState) internal.Message[internal.PhaseChangedData] {
	return event(internal.EventPhaseChanged, internal.PhaseChangedData{
		Phase:   room.Phase.Current,
		Payload: e.phasePayload(room, state),
	})
}

// sendPhase notifies the room of its current phase. Drawing content differs
// per participant, so it is always targeted. Caller holds room.Mu.
func (e *Engine) sendPhase(room *internal.Room) {
	if room.Phase.Current != internal.PhaseDrawing {
		e.notify.Broadcast(room.Id, e.phaseEvent(room, nil))
		return
	}
	for _, state := range room.Participants {
		if state.Removed {
			continue
		}
		e.notify.SendPlayer(state.Player, e.phaseEvent(room, state))
	}
}

func (e *Engine) broadcastParticipants(room *internal.Room) {
	e.notify.Broadcast(room.Id, event(internal.EventParticipantListChanged, internal.ParticipantListData{
		RoomId:       room.Id,
		HostId:       room.HostID(),
		Participants: room.Snapshots(),
	}))
}

// publishRoomList refreshes the room list of every session in room
// selection. It runs on its own goroutine since listing locks each room.
func (e *Engine) publishRoomList() {
	go func() {
		e.notify.BroadcastSelection(e.roomListEvent())
	}()
}

func (e *Engine) roomListEvent() internal.Message[internal.RoomListData] {
	return event(internal.EventRoomList, internal.RoomListData{Rooms: e.rooms.List()})
}
