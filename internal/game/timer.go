package game

import (
	"context"
	"errors"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// startPhaseTimer arms the room's single phase timer. Any previous timer is
// cancelled first. Caller holds room.Mu.
func (e *Engine) startPhaseTimer(room *internal.Room, duration time.Duration) {
	e.cancelPhaseTimer(room)

	room.Phase.Generation++
	generation := room.Phase.Generation
	deadline := time.Now().Add(duration)
	room.Phase.Deadline = &deadline

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	room.Phase.Cancel = cancel

	e.log.Debug().
		Str("room", room.Id).
		Str("phase", string(room.Phase.Current)).
		Dur("duration", duration).
		Uint64("generation", generation).
		Msg("[startPhaseTimer] timer armed")

	go func() {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		e.onPhaseTimeout(room, generation)
	}()
}

// cancelPhaseTimer stops the outstanding timer and invalidates its
// generation, so a callback already in flight turns into a no-op. Caller
// holds room.Mu.
func (e *Engine) cancelPhaseTimer(room *internal.Room) {
	if room.Phase.Cancel != nil {
		room.Phase.Cancel()
		room.Phase.Cancel = nil
	}
	room.Phase.Generation++
	room.Phase.Deadline = nil
}

func (e *Engine) onPhaseTimeout(room *internal.Room, generation uint64) {
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed || room.Phase.Generation != generation {
		e.log.Debug().
			Str("room", room.Id).
			Uint64("generation", generation).
			Uint64("current", room.Phase.Generation).
			Msg("[onPhaseTimeout] stale timer ignored")
		return
	}

	e.log.Info().
		Str("room", room.Id).
		Str("phase", string(room.Phase.Current)).
		Msg("[onPhaseTimeout] deadline reached")
	e.advancePhase(room, internal.ReasonTimeout)
}
