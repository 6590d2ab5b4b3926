package game

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1PeAAAADElEQVR4nGP4z8AAAAMBAQDJ/pLvAAAAAElFTkSuQmCC"

// recorder is an in-memory connection that keeps every event it is sent.
type recorder struct {
	id     string
	mu     sync.Mutex
	msgs   []internal.Message[json.RawMessage]
	closed bool
}

func newRecorder() *recorder {
	return &recorder{id: uuid.NewString()}
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var msg internal.Message[json.RawMessage]
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errConnClosed
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *recorder) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *recorder) ofType(typ string) []json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []json.RawMessage
	for _, msg := range r.msgs {
		if msg.Type == typ {
			out = append(out, msg.Data)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}

type phaseEnvelope struct {
	Phase   internal.GamePhase `json:"phase"`
	Payload json.RawMessage    `json:"payload"`
}

// lastPhase returns the most recent phase-changed event and decodes its
// payload into out when out is not nil.
func lastPhase(t *testing.T, r *recorder, out any) internal.GamePhase {
	t.Helper()
	events := r.ofType(internal.EventPhaseChanged)
	require.NotEmpty(t, events, "no phase-changed event received")

	var env phaseEnvelope
	require.NoError(t, json.Unmarshal(events[len(events)-1], &env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Payload, out))
	}
	return env.Phase
}

func last[T any](t *testing.T, r *recorder, typ string) T {
	t.Helper()
	events := r.ofType(typ)
	require.NotEmpty(t, events, "no %s event received", typ)

	var out T
	require.NoError(t, json.Unmarshal(events[len(events)-1], &out))
	return out
}

func testSettings() internal.Settings {
	s := internal.DefaultSettings()
	s.PlayCutscenes = false
	return s
}

func newTestEngine(t *testing.T, configure ...func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Defaults:       testSettings(),
		ReconnectGrace: time.Hour,
		Logger:         zerolog.Nop(),
	}
	for _, fn := range configure {
		fn(&opts)
	}
	e, err := NewEngine(opts)
	require.NoError(t, err)
	return e
}

func connect(e *Engine, name string) (*Session, *recorder) {
	rec := newRecorder()
	return e.Connect(name, "", rec), rec
}

// setupRoom creates a room with n participants, the first one being host.
func setupRoom(t *testing.T, e *Engine, n int) (*internal.Room, []*Session, []*recorder) {
	t.Helper()
	sessions := make([]*Session, 0, n)
	recorders := make([]*recorder, 0, n)

	host, hostRec := connect(e, "host")
	roomID, err := e.CreateRoom(host, "test room")
	require.NoError(t, err)
	sessions = append(sessions, host)
	recorders = append(recorders, hostRec)

	for i := 1; i < n; i++ {
		sess, rec := connect(e, fmt.Sprintf("player-%d", i))
		require.NoError(t, e.JoinRoom(sess, roomID))
		sessions = append(sessions, sess)
		recorders = append(recorders, rec)
	}

	room, ok := e.rooms.Get(roomID)
	require.True(t, ok)
	t.Cleanup(func() {
		room.Mu.Lock()
		e.cancelPhaseTimer(room)
		room.Closed = true
		room.Mu.Unlock()
	})
	return room, sessions, recorders
}

func readyAll(t *testing.T, e *Engine, sessions ...*Session) {
	t.Helper()
	for _, sess := range sessions {
		require.NoError(t, e.ToggleReady(sess))
	}
}

func phaseOf(room *internal.Room) internal.GamePhase {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	return room.Phase.Current
}

func generationOf(room *internal.Room) uint64 {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	return room.Phase.Generation
}

// members lists the user ids grouped under the room.
func members(b *Broadcaster, roomID string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.groups[roomID]))
	for userID := range b.groups[roomID] {
		ids = append(ids, userID)
	}
	return ids
}
