package internal

import (
	"fmt"
	"slices"
)

// Methods (Room struct). All of them expect r.Mu to be held by the caller.

func (r *Room) Participant(userID string) *PlayerRoundState {
	for _, state := range r.Participants {
		if state.Player.UserId == userID {
			return state
		}
	}
	return nil
}

// ActiveParticipants returns the participants that are neither removed from
// the room nor detached.
func (r *Room) ActiveParticipants() []*PlayerRoundState {
	active := make([]*PlayerRoundState, 0, len(r.Participants))
	for _, state := range r.Participants {
		if !state.Removed && state.Player.IsConnected() {
			active = append(active, state)
		}
	}
	return active
}

// HostID is the first attached participant in join order, or the first
// non-removed one when nobody is attached.
func (r *Room) HostID() string {
	if active := r.ActiveParticipants(); len(active) > 0 {
		return active[0].Player.UserId
	}
	for _, state := range r.Participants {
		if !state.Removed {
			return state.Player.UserId
		}
	}
	return ""
}

func (r *Room) HasConnectedParticipants() bool {
	return len(r.ActiveParticipants()) > 0
}

// AddParticipant appends p, or restores its existing entry. The boolean is
// false when p was already a live participant.
func (r *Room) AddParticipant(p *Player) (*PlayerRoundState, bool) {
	if state := r.Participant(p.UserId); state != nil {
		if !state.Removed {
			return state, false
		}
		state.Removed = false
		return state, true
	}

	state := &PlayerRoundState{Player: p}
	r.Participants = append(r.Participants, state)
	return state, true
}

func (r *Room) RemoveParticipant(userID string) *PlayerRoundState {
	idx := slices.IndexFunc(r.Participants, func(s *PlayerRoundState) bool {
		return s.Player.UserId == userID
	})
	if idx < 0 {
		return nil
	}
	state := r.Participants[idx]
	r.Participants = slices.Delete(r.Participants, idx, idx+1)
	return state
}

// MarkRemoved flags the participant so it stops counting as active while its
// round data stays in place until the next lobby.
func (r *Room) MarkRemoved(userID string) *PlayerRoundState {
	state := r.Participant(userID)
	if state == nil || state.Removed {
		return nil
	}
	state.Removed = true
	return state
}

func (r *Room) PruneRemoved() []*PlayerRoundState {
	var pruned []*PlayerRoundState
	r.Participants = slices.DeleteFunc(r.Participants, func(s *PlayerRoundState) bool {
		if s.Removed {
			pruned = append(pruned, s)
			return true
		}
		return false
	})
	return pruned
}

func (r *Room) AreAllPlayersReady() bool {
	active := r.ActiveParticipants()
	if len(active) == 0 {
		return false
	}
	for _, state := range active {
		if !state.Player.IsReady() {
			return false
		}
	}
	return true
}

// CanAdvance applies the ready rule of the current phase: everyone active is
// ready, and the lobby additionally needs MinPlayersToStart of them.
func (r *Room) CanAdvance() bool {
	if !r.AreAllPlayersReady() {
		return false
	}
	if r.Phase.Current == PhaseLobby {
		return len(r.ActiveParticipants()) >= MinPlayersToStart
	}
	return true
}

func (r *Room) ResetReady() {
	for _, state := range r.Participants {
		state.Player.SetReady(false)
	}
}

func (r *Room) ResetRoundState() {
	for _, state := range r.Participants {
		state.IsEvil = false
		state.Artifact = ""
		state.Vote = ""
		state.Requirements = nil
	}
	r.Result = nil
}

func (r *Room) ResetScores() {
	for _, state := range r.Participants {
		state.Score = 0
	}
	r.RoundNumber = 0
}

func (r *Room) Evil() *PlayerRoundState {
	for _, state := range r.Participants {
		if state.IsEvil {
			return state
		}
	}
	return nil
}

func (r *Room) RecordVote(voterID, targetID string) error {
	if r.Phase.Current != PhaseVoting {
		return fmt.Errorf("%w: votes are only accepted during voting (phase=%s)", ErrProtocol, r.Phase.Current)
	}
	voter := r.Participant(voterID)
	if voter == nil || voter.Removed {
		return fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, voterID, r.Id)
	}
	if target := r.Participant(targetID); target == nil {
		return fmt.Errorf("%w: vote target %s is not in room %s", ErrNotFound, targetID, r.Id)
	}
	voter.Vote = targetID
	return nil
}

func (r *Room) AcceptsArtifacts() bool {
	return r.Phase.Current == PhaseDrawing || r.Phase.Current == PhaseCutsceneMakeTheMask
}

func (r *Room) RecordArtifact(userID, artifact string) error {
	if !r.AcceptsArtifacts() {
		return fmt.Errorf("%w: masks can only be sent during the drawing phase (phase=%s)", ErrProtocol, r.Phase.Current)
	}
	state := r.Participant(userID)
	if state == nil {
		return fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, userID, r.Id)
	}
	state.Artifact = artifact
	return nil
}

// Artifacts returns the mask of every participant still in the room, keyed
// by user id. Participants who sent nothing map to "".
func (r *Room) Artifacts() map[string]string {
	masks := make(map[string]string, len(r.Participants))
	for _, state := range r.Participants {
		if state.Removed {
			continue
		}
		masks[state.Player.UserId] = state.Artifact
	}
	return masks
}

func (r *Room) Snapshots() []PlayerSnapshot {
	snapshots := make([]PlayerSnapshot, 0, len(r.Participants))
	for _, state := range r.Participants {
		if state.Removed {
			continue
		}
		snapshots = append(snapshots, state.Player.Snapshot(state.Score))
	}
	return snapshots
}

func (r *Room) ListEntry() RoomListEntry {
	count := 0
	for _, state := range r.Participants {
		if !state.Removed {
			count++
		}
	}
	return RoomListEntry{
		RoomId:       r.Id,
		RoomName:     r.Name,
		CurrentPhase: r.Phase.Current,
		PlayerCount:  count,
	}
}
