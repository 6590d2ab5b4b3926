package game

import (
	"fmt"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/moderation"
)

// =============================================================================
// CONNECTION & ROOM MANAGEMENT
// =============================================================================

// Connect resolves the identity token and brings the session back to the
// room it was last attached to, or to room selection.
func (e *Engine) Connect(displayName, token string, conn internal.Conn) *Session {
	name := e.names.Clean(displayName)

	var previous internal.Conn
	if token != "" {
		if known, ok := e.players.ByToken(token); ok {
			previous = known.Conn()
			// a reconnect without a name keeps the one already known
			if name == moderation.DefaultName {
				name = known.DisplayName()
			}
		}
	}

	player, created := e.players.Resolve(name, token, conn)
	sess := &Session{Player: player, Conn: conn}

	// A second connection with the same token supersedes the first one
	if previous != nil && previous.ID() != conn.ID() {
		e.notify.Drop(previous)
		_ = previous.Close()
	}

	e.log.Info().
		Str("player", player.UserId).
		Str("name", name).
		Bool("created", created).
		Str("conn", conn.ID()).
		Msg("[Connect] player connected")

	e.notify.Send(conn, event(internal.EventIdentityAssigned, internal.IdentityAssignedData{
		UserId:      player.UserId,
		Token:       player.Token,
		DisplayName: player.DisplayName(),
	}))

	if !e.reattach(sess) {
		e.enterSelection(sess.Player, conn)
	}
	return sess
}

// reattach puts a returning player back into its last room. Being already
// present there is fine; only the connection handle is refreshed.
func (e *Engine) reattach(sess *Session) bool {
	roomID := sess.RoomID()
	if roomID == "" {
		return false
	}
	room, ok := e.rooms.Get(roomID)
	if !ok {
		sess.Player.SetLastRoomID("")
		return false
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed {
		sess.Player.SetLastRoomID("")
		return false
	}

	state, restored := room.AddParticipant(sess.Player)
	e.notify.Join(room.Id, sess.UserID(), sess.Conn)
	e.notify.Send(sess.Conn, e.phaseEvent(room, state))
	e.broadcastParticipants(room)

	e.log.Info().
		Str("room", room.Id).
		Str("player", sess.UserID()).
		Str("phase", string(room.Phase.Current)).
		Bool("restored", restored).
		Msg("[reattach] player back in room")
	return true
}

func (e *Engine) enterSelection(player *internal.Player, conn internal.Conn) {
	if conn == nil {
		return
	}
	list := e.roomListEvent()
	e.notify.JoinSelection(player.UserId, conn)
	e.notify.Send(conn, list)
	e.notify.Send(conn, event(internal.EventPhaseChanged, internal.PhaseChangedData{
		Phase:   internal.PhaseUserSelect,
		Payload: list.Data,
	}))
}

// Disconnect handles a closed connection. A connection that was already
// superseded by a reconnect changes nothing.
func (e *Engine) Disconnect(sess *Session) {
	e.notify.Drop(sess.Conn)
	if !sess.Player.Detach(sess.Conn) {
		e.log.Debug().Str("player", sess.UserID()).Str("conn", sess.Conn.ID()).
			Msg("[Disconnect] stale connection closed")
		return
	}

	e.log.Info().Str("player", sess.UserID()).Str("room", sess.RoomID()).Msg("[Disconnect] player detached")

	room, ok := e.currentRoom(sess)
	if !ok {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed || room.Participant(sess.UserID()) == nil {
		return
	}
	e.broadcastParticipants(room)
	e.tryAdvance(room)

	if !room.HasConnectedParticipants() {
		e.scheduleAbandon(room)
	}
}

// scheduleAbandon removes the room after the reconnect grace unless someone
// came back in the meantime. Caller holds room.Mu.
func (e *Engine) scheduleAbandon(room *internal.Room) {
	e.log.Info().Str("room", room.Id).Dur("grace", e.grace).Msg("[scheduleAbandon] room has no attached participants")
	time.AfterFunc(e.grace, func() {
		e.abandonRoom(room)
	})
}

func (e *Engine) abandonRoom(room *internal.Room) {
	room.Mu.Lock()
	if room.Closed || room.HasConnectedParticipants() {
		room.Mu.Unlock()
		return
	}
	e.cancelPhaseTimer(room)
	room.Closed = true
	participants := append([]*internal.PlayerRoundState(nil), room.Participants...)
	room.Mu.Unlock()

	e.closeRoom(room)
	for _, state := range participants {
		player := state.Player
		if !player.IsConnected() && player.LastRoomID() == room.Id {
			e.players.Remove(player.UserId)
		}
	}
	e.log.Info().Str("room", room.Id).Msg("[abandonRoom] room removed")
}

// closeRoom drops a room that is already marked closed. Must be called
// without room.Mu held.
func (e *Engine) closeRoom(room *internal.Room) {
	e.rooms.Remove(room.Id)
	e.notify.DropRoom(room.Id)
	e.publishRoomList()
}

// CreateRoom opens a new room with the default settings and joins the
// caller to it.
func (e *Engine) CreateRoom(sess *Session, name string) (string, error) {
	if room, ok := e.currentRoom(sess); ok {
		return "", fmt.Errorf("%w: already in room %s", internal.ErrProtocol, room.Id)
	}

	room := e.rooms.Create(e.names.CleanRoomName(name), e.defaults)
	e.log.Info().Str("room", room.Id).Str("name", room.Name).Str("player", sess.UserID()).
		Msg("[CreateRoom] room created")

	e.notify.Send(sess.Conn, event(internal.EventRoomCreated, internal.RoomCreatedData{
		RoomId:   room.Id,
		RoomName: room.Name,
	}))
	if err := e.join(sess, room); err != nil {
		e.rooms.Remove(room.Id)
		return "", err
	}
	return room.Id, nil
}

func (e *Engine) JoinRoom(sess *Session, roomID string) error {
	if room, ok := e.currentRoom(sess); ok {
		return fmt.Errorf("%w: already in room %s", internal.ErrProtocol, room.Id)
	}
	room, ok := e.rooms.Get(roomID)
	if !ok {
		return fmt.Errorf("%w: room %s", internal.ErrNotFound, roomID)
	}
	return e.join(sess, room)
}

func (e *Engine) join(sess *Session, room *internal.Room) error {
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed {
		return fmt.Errorf("%w: room %s", internal.ErrNotFound, room.Id)
	}
	// another session of the same player may have joined elsewhere meanwhile
	if current := sess.RoomID(); current != "" && current != room.Id {
		return fmt.Errorf("%w: already in room %s", internal.ErrProtocol, current)
	}

	state, _ := room.AddParticipant(sess.Player)
	sess.Player.SetReady(false)
	sess.Player.SetLastRoomID(room.Id)
	e.notify.Join(room.Id, sess.UserID(), sess.Conn)

	e.notify.Broadcast(room.Id, event(internal.EventPlayerJoined, internal.PlayerPresenceData{
		PlayerId:    sess.UserID(),
		DisplayName: sess.Player.DisplayName(),
		RoomId:      room.Id,
	}))
	e.notify.Send(sess.Conn, e.phaseEvent(room, state))
	e.broadcastParticipants(room)
	e.publishRoomList()

	e.log.Info().
		Str("room", room.Id).
		Str("player", sess.UserID()).
		Int("participants", len(room.Snapshots())).
		Msg("[join] player joined room")
	return nil
}

func (e *Engine) LeaveRoom(sess *Session) error {
	room, err := e.roomFor(sess)
	if err != nil {
		return err
	}

	room.Mu.Lock()
	removed, empty := e.removeParticipant(room, sess.UserID())
	room.Mu.Unlock()

	if !removed {
		return fmt.Errorf("%w: player %s is not in room %s", internal.ErrNotFound, sess.UserID(), room.Id)
	}
	if empty {
		e.closeRoom(room)
	}
	e.enterSelection(sess.Player, sess.Conn)
	e.publishRoomList()
	return nil
}

// removeParticipant takes a player out of the room. In the lobby the entry
// is dropped; mid-game it is only marked removed so the round data stays
// consistent. empty reports that nobody is left and the room was closed.
// Caller holds room.Mu.
func (e *Engine) removeParticipant(room *internal.Room, userID string) (removed, empty bool) {
	var state *internal.PlayerRoundState
	if room.Phase.Current == internal.PhaseLobby {
		state = room.RemoveParticipant(userID)
	} else {
		state = room.MarkRemoved(userID)
	}
	if state == nil {
		return false, false
	}

	state.Player.SetReady(false)
	state.Player.SetLastRoomID("")
	e.notify.Leave(room.Id, userID)

	e.log.Info().Str("room", room.Id).Str("player", userID).Str("phase", string(room.Phase.Current)).
		Msg("[removeParticipant] player left room")

	if len(room.Snapshots()) == 0 {
		e.cancelPhaseTimer(room)
		room.Closed = true
		return true, true
	}

	e.notify.Broadcast(room.Id, event(internal.EventPlayerLeft, internal.PlayerPresenceData{
		PlayerId:    userID,
		DisplayName: state.Player.DisplayName(),
		RoomId:      room.Id,
	}))
	e.broadcastParticipants(room)
	if !e.tryAdvance(room) && !room.HasConnectedParticipants() {
		e.scheduleAbandon(room)
	}
	return true, false
}

func (e *Engine) ListRooms(sess *Session) {
	e.notify.Send(sess.Conn, e.roomListEvent())
}

// currentRoom looks up the session's room, forgetting a room id that no
// longer exists.
func (e *Engine) currentRoom(sess *Session) (*internal.Room, bool) {
	roomID := sess.RoomID()
	if roomID == "" {
		return nil, false
	}
	room, ok := e.rooms.Get(roomID)
	if !ok {
		sess.Player.SetLastRoomID("")
		return nil, false
	}
	return room, true
}

func (e *Engine) roomFor(sess *Session) (*internal.Room, error) {
	if sess.RoomID() == "" {
		return nil, fmt.Errorf("%w: not in a room", internal.ErrProtocol)
	}
	room, ok := e.currentRoom(sess)
	if !ok {
		return nil, fmt.Errorf("%w: room no longer exists", internal.ErrNotFound)
	}
	return room, nil
}
