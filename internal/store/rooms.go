// Package store holds the process-wide room and player maps. Both are owned
// by the server and handed to the game layer explicitly.
package store

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/utils"
)

type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]*internal.Room
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]*internal.Room)}
}

// Create registers a new room in the lobby with a fresh id.
func (s *Rooms) Create(name string, settings internal.Settings) *internal.Room {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := utils.GenerateID()
	for _, exists := s.rooms[id]; exists; _, exists = s.rooms[id] {
		id = utils.GenerateID()
	}
	if name == "" {
		name = "Room " + id[:8]
	}

	room := &internal.Room{
		Id:           id,
		Name:         name,
		CreatedAt:    time.Now(),
		Settings:     settings,
		Participants: make([]*internal.PlayerRoundState, 0),
		Phase:        internal.PhaseState{Current: internal.PhaseLobby},
	}
	s.rooms[id] = room
	return room
}

func (s *Rooms) Get(id string) (*internal.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

// Remove deletes the room and reports whether it was present. Removing an
// unknown id is a no-op.
func (s *Rooms) Remove(id string) bool {
	s.mu.Lock()
	room, ok := s.rooms[id]
	delete(s.rooms, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	room.Mu.Lock()
	room.Closed = true
	room.Mu.Unlock()
	return true
}

// All returns a snapshot of the rooms, oldest first.
func (s *Rooms) All() []*internal.Room {
	s.mu.RLock()
	rooms := make([]*internal.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.RUnlock()

	slices.SortFunc(rooms, func(a, b *internal.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Id, b.Id)
	})
	return rooms
}

// List builds the room-list entries. Each room is locked on its own while
// its entry is read; the store lock is not held at that point.
func (s *Rooms) List() []internal.RoomListEntry {
	rooms := s.All()
	entries := make([]internal.RoomListEntry, 0, len(rooms))
	for _, room := range rooms {
		room.Mu.Lock()
		if !room.Closed {
			entries = append(entries, room.ListEntry())
		}
		room.Mu.Unlock()
	}
	return entries
}

func (s *Rooms) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
