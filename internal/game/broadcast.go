package game

import (
	"errors"
	"sync"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/rs/zerolog"
)

// =============================================================================
// NOTIFICATION BROADCASTER
// =============================================================================

// Broadcaster tracks which connection belongs to which room group. Sessions
// that are not in a room sit in the selection group and receive room-list
// updates.
type Broadcaster struct {
	mu        sync.RWMutex
	groups    map[string]map[string]internal.Conn
	selection map[string]internal.Conn
	log       zerolog.Logger
}

func NewBroadcaster(logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		groups:    make(map[string]map[string]internal.Conn),
		selection: make(map[string]internal.Conn),
		log:       logger.With().Str("component", "broadcaster").Logger(),
	}
}

// Join puts the user's connection in the room group, replacing any older
// connection, and takes it out of the selection group.
func (b *Broadcaster) Join(roomID, userID string, conn internal.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.selection, userID)
	group, ok := b.groups[roomID]
	if !ok {
		group = make(map[string]internal.Conn)
		b.groups[roomID] = group
	}
	group[userID] = conn
}

func (b *Broadcaster) Leave(roomID, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	group := b.groups[roomID]
	delete(group, userID)
	if len(group) == 0 {
		delete(b.groups, roomID)
	}
}

func (b *Broadcaster) JoinSelection(userID string, conn internal.Conn) {
	b.mu.Lock()
	b.selection[userID] = conn
	b.mu.Unlock()
}

// Drop removes conn from every group where it is still the current
// connection of its user.
func (b *Broadcaster) Drop(conn internal.Conn) {
	if conn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for userID, c := range b.selection {
		if c.ID() == conn.ID() {
			delete(b.selection, userID)
		}
	}
	for roomID, group := range b.groups {
		for userID, c := range group {
			if c.ID() == conn.ID() {
				delete(group, userID)
			}
		}
		if len(group) == 0 {
			delete(b.groups, roomID)
		}
	}
}

func (b *Broadcaster) DropRoom(roomID string) {
	b.mu.Lock()
	delete(b.groups, roomID)
	b.mu.Unlock()
}

// Broadcast sends msg to every connection grouped under the room.
func (b *Broadcaster) Broadcast(roomID string, msg any) {
	b.mu.RLock()
	conns := make([]internal.Conn, 0, len(b.groups[roomID]))
	for _, conn := range b.groups[roomID] {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	for _, conn := range conns {
		b.Send(conn, msg)
	}
}

func (b *Broadcaster) BroadcastSelection(msg any) {
	b.mu.RLock()
	conns := make([]internal.Conn, 0, len(b.selection))
	for _, conn := range b.selection {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	for _, conn := range conns {
		b.Send(conn, msg)
	}
}

// Send is the targeted delivery mode. It never blocks.
func (b *Broadcaster) Send(conn internal.Conn, msg any) {
	if conn == nil {
		return
	}
	if err := conn.Send(msg); err != nil {
		b.log.Debug().Err(err).Str("conn", conn.ID()).Msg("[Send] dropped message")
	}
}

// SendPlayer delivers msg to the player's current connection. A detached
// player is skipped.
func (b *Broadcaster) SendPlayer(p *internal.Player, msg any) {
	if err := p.Send(msg); err != nil {
		if errors.Is(err, internal.ErrDetached) {
			return
		}
		b.log.Debug().Err(err).Str("player", p.UserId).Msg("[SendPlayer] dropped message")
	}
}

func event[T any](typ string, data T) internal.Message[T] {
	return internal.Message[T]{Type: typ, Data: data}
}
