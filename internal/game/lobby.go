package game

import (
	"fmt"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
)

// =============================================================================
// GAME FLOW - READINESS & HOST ACTIONS
// =============================================================================

// ToggleReady flips the caller's ready flag. The phase advances as soon as
// every active participant is ready.
func (e *Engine) ToggleReady(sess *Session) error {
	room, err := e.roomFor(sess)
	if err != nil {
		return err
	}

	// --- Critical section ---
	room.Mu.Lock()
	defer room.Mu.Unlock()

	state := room.Participant(sess.UserID())
	if room.Closed || state == nil || state.Removed {
		return fmt.Errorf("%w: player %s is not in room %s", internal.ErrNotFound, sess.UserID(), room.Id)
	}

	ready := !sess.Player.IsReady()
	sess.Player.SetReady(ready)

	e.log.Debug().
		Str("room", room.Id).
		Str("player", sess.UserID()).
		Bool("ready", ready).
		Str("phase", string(room.Phase.Current)).
		Msg("[ToggleReady] ready changed")

	e.notify.Broadcast(room.Id, event(internal.EventReadyChanged, internal.ReadyChangedData{
		PlayerId: sess.UserID(),
		IsReady:  ready,
	}))
	e.tryAdvance(room)
	return nil
}

// UpdateSettings replaces the room settings. Host only, lobby only.
func (e *Engine) UpdateSettings(sess *Session, settings internal.Settings) error {
	room, err := e.roomFor(sess)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if host := room.HostID(); host != sess.UserID() {
		return fmt.Errorf("%w: only the host (%s) can change settings", internal.ErrStateConflict, host)
	}
	if room.Phase.Current != internal.PhaseLobby {
		return fmt.Errorf("%w: settings can only change in the lobby (phase=%s)", internal.ErrProtocol, room.Phase.Current)
	}
	if err := e.validateSettings(settings); err != nil {
		return err
	}

	room.Settings = settings
	e.log.Info().Str("room", room.Id).Interface("settings", settings).Msg("[UpdateSettings] settings changed")

	e.notify.Broadcast(room.Id, event(internal.EventSettingsChanged, settings))
	return nil
}

// Kick removes another participant from the room. Host only.
func (e *Engine) Kick(sess *Session, targetID string) error {
	room, err := e.roomFor(sess)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	if host := room.HostID(); host != sess.UserID() {
		room.Mu.Unlock()
		return fmt.Errorf("%w: only the host (%s) can kick", internal.ErrStateConflict, host)
	}
	if targetID == sess.UserID() {
		room.Mu.Unlock()
		return fmt.Errorf("%w: the host cannot kick themselves, use leave-room", internal.ErrProtocol)
	}
	target := room.Participant(targetID)
	if target == nil || target.Removed {
		room.Mu.Unlock()
		return fmt.Errorf("%w: player %s is not in room %s", internal.ErrNotFound, targetID, room.Id)
	}
	e.removeParticipant(room, targetID)
	room.Mu.Unlock()

	e.log.Info().Str("room", room.Id).Str("host", sess.UserID()).Str("player", targetID).Msg("[Kick] player kicked")

	e.enterSelection(target.Player, target.Player.Conn())
	return nil
}
