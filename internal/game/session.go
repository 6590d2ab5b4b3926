package game

import "github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"

// Session is one live connection bound to its player. The gateway creates it
// on connect and passes it to every command.
type Session struct {
	Player *internal.Player
	Conn   internal.Conn
}

// RoomID is the room the player is attached to, "" in room selection.
func (s *Session) RoomID() string {
	return s.Player.LastRoomID()
}

func (s *Session) UserID() string {
	return s.Player.UserId
}
