package game

import (
	"fmt"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
)

// =============================================================================
// MASK ARTIFACTS
// =============================================================================

// SetArtifact stores a participant's mask. It is accepted while drawing and
// during the cutscene that follows; it never advances the phase.
func (e *Engine) SetArtifact(roomID, playerID, encoded string) error {
	artifact, err := internal.DecodeArtifact(encoded)
	if err != nil {
		return err
	}
	room, ok := e.rooms.Get(roomID)
	if !ok {
		return fmt.Errorf("%w: room %s", internal.ErrNotFound, roomID)
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed {
		return fmt.Errorf("%w: room %s", internal.ErrNotFound, roomID)
	}
	if err := room.RecordArtifact(playerID, artifact); err != nil {
		return err
	}
	e.log.Debug().Str("room", roomID).Str("player", playerID).Int("bytes", len(artifact)).
		Msg("[SetArtifact] mask stored")
	return nil
}

// Artifacts returns every participant's mask. Only readable while voting.
func (e *Engine) Artifacts(roomID string) (map[string]string, error) {
	room, ok := e.rooms.Get(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: room %s", internal.ErrNotFound, roomID)
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed {
		return nil, fmt.Errorf("%w: room %s", internal.ErrNotFound, roomID)
	}
	if room.Phase.Current != internal.PhaseVoting {
		return nil, fmt.Errorf("%w: masks can only be read during voting (phase=%s)", internal.ErrProtocol, room.Phase.Current)
	}
	return room.Artifacts(), nil
}
