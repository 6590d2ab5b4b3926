package internal

import (
	"sync"
)

// Conn is the outbound half of one live client connection.
type Conn interface {
	ID() string
	Send(v any) error
	Close() error
}

// Player outlives any single connection; it is keyed by the device token.
type Player struct {
	UserId string
	Token  string

	mu          sync.RWMutex
	displayName string
	conn        Conn
	ready       bool
	removed     bool
	lastRoomID  string
}

type PlayerSnapshot struct {
	UserId      string `json:"userId"`
	DisplayName string `json:"displayName"`
	IsReady     bool   `json:"isReady"`
	Score       int    `json:"score"`
	Connected   bool   `json:"connected"`
}

func NewPlayer(userID, token, displayName string, conn Conn) *Player {
	return &Player{
		UserId:      userID,
		Token:       token,
		displayName: displayName,
		conn:        conn,
	}
}

func (p *Player) DisplayName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.displayName
}

func (p *Player) SetDisplayName(name string) {
	p.mu.Lock()
	p.displayName = name
	p.mu.Unlock()
}

func (p *Player) Conn() Conn {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn
}

// Bind attaches a new connection and clears the removed flag. It returns the
// connection it replaced, if any.
func (p *Player) Bind(conn Conn) Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.conn
	p.conn = conn
	p.removed = false
	return prev
}

// Detach drops conn if it is still the player's current connection. A stale
// connection closing after a rebind leaves the player attached.
func (p *Player) Detach(conn Conn) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || conn == nil || p.conn.ID() != conn.ID() {
		return false
	}
	p.conn = nil
	p.removed = true
	return true
}

func (p *Player) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn != nil && !p.removed
}

func (p *Player) Removed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.removed
}

func (p *Player) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

func (p *Player) SetReady(ready bool) {
	p.mu.Lock()
	p.ready = ready
	p.mu.Unlock()
}

func (p *Player) LastRoomID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRoomID
}

func (p *Player) SetLastRoomID(roomID string) {
	p.mu.Lock()
	p.lastRoomID = roomID
	p.mu.Unlock()
}

// Send writes v to the player's current connection.
func (p *Player) Send(v any) error {
	conn := p.Conn()
	if conn == nil {
		return ErrDetached
	}
	return conn.Send(v)
}

func (p *Player) Snapshot(score int) PlayerSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PlayerSnapshot{
		UserId:      p.UserId,
		DisplayName: p.displayName,
		IsReady:     p.ready,
		Score:       score,
		Connected:   p.conn != nil && !p.removed,
	}
}
