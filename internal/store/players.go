package store

import (
	"sync"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/utils"
)

// Players is the registry of known identities, keyed by user id and by the
// device token.
type Players struct {
	mu      sync.RWMutex
	byID    map[string]*internal.Player
	byToken map[string]*internal.Player
}

func NewPlayers() *Players {
	return &Players{
		byID:    make(map[string]*internal.Player),
		byToken: make(map[string]*internal.Player),
	}
}

// Resolve returns the player owning token, rebinding it to conn, or mints a
// new one. An empty token gets a freshly generated one. The boolean reports
// whether the player was created.
func (s *Players) Resolve(displayName, token string, conn internal.Conn) (*internal.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != "" {
		if player, ok := s.byToken[token]; ok {
			player.Bind(conn)
			player.SetDisplayName(displayName)
			return player, false
		}
	} else {
		token = utils.NewIdentityToken()
	}

	player := internal.NewPlayer(utils.GenerateID(), token, displayName, conn)
	s.byID[player.UserId] = player
	s.byToken[token] = player
	return player, true
}

func (s *Players) ByToken(token string) (*internal.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.byToken[token]
	return player, ok
}

// Remove forgets the player; its token will mint a new identity next time.
func (s *Players) Remove(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.byID[userID]
	if !ok {
		return false
	}
	delete(s.byID, userID)
	delete(s.byToken, player.Token)
	return true
}

func (s *Players) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
