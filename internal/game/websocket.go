package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10

	DefaultSendBuffer = 64
)

var (
	errConnClosed = errors.New("connection closed")
	errBufferFull = errors.New("outbound buffer full")
)

// ConnectParams are read from the websocket query string.
type ConnectParams struct {
	DisplayName   string `validate:"max=64"`
	IdentityToken string `validate:"omitempty,max=128,printascii"`
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

type Gateway struct {
	engine     *Engine
	upgrader   websocket.Upgrader
	validate   *validator.Validate
	sendBuffer int
	log        zerolog.Logger
}

func NewGateway(engine *Engine, checkOrigin func(r *http.Request) bool, sendBuffer int, logger zerolog.Logger) *Gateway {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Gateway{
		engine:     engine,
		upgrader:   websocket.Upgrader{CheckOrigin: checkOrigin},
		validate:   validator.New(),
		sendBuffer: sendBuffer,
		log:        logger.With().Str("component", "gateway").Logger(),
	}
}

// HandleWebSocket upgrades the request, binds the identity and serves the
// connection until it closes.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 1. Validate connect parameters before upgrading
	params := ConnectParams{
		DisplayName:   r.URL.Query().Get("displayName"),
		IdentityToken: r.URL.Query().Get("identityToken"),
	}
	if err := g.validate.Struct(params); err != nil {
		http.Error(w, fmt.Sprintf("invalid connect parameters: %v", err), http.StatusBadRequest)
		return
	}

	// 2. Upgrade connection to WebSocket
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("[HandleWebSocket] upgrade failed")
		return
	}

	conn := newWSConn(ws, g.sendBuffer)
	go conn.writePump(g.log)

	// 3. Resolve identity, then read until the socket closes
	sess := g.engine.Connect(params.DisplayName, params.IdentityToken, conn)
	g.handleMessages(sess, conn)
}

// handleMessages processes incoming messages for one session.
func (g *Gateway) handleMessages(sess *Session, conn *wsConn) {
	defer func() {
		_ = conn.Close()
		g.engine.Disconnect(sess)
	}()

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Debug().Err(err).Str("player", sess.UserID()).Msg("[handleMessages] read error")
			}
			return
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			g.reply(sess, "", fmt.Errorf("%w: malformed message: %v", internal.ErrProtocol, err))
			continue
		}
		g.log.Debug().Str("player", sess.UserID()).Str("type", msg.Type).Msg("[handleMessages] received")

		g.reply(sess, msg.Type, g.dispatch(sess, msg))
	}
}

func (g *Gateway) dispatch(sess *Session, msg internal.Message[json.RawMessage]) error {
	switch msg.Type {
	case internal.CommandCreateRoom:
		var cmd internal.CreateRoomCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		_, err := g.engine.CreateRoom(sess, cmd.Name)
		return err
	case internal.CommandJoinRoom:
		var cmd internal.JoinRoomCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return g.engine.JoinRoom(sess, cmd.RoomId)
	case internal.CommandLeaveRoom:
		return g.engine.LeaveRoom(sess)
	case internal.CommandToggleReady:
		return g.engine.ToggleReady(sess)
	case internal.CommandCastVote:
		var cmd internal.CastVoteCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return g.engine.CastVote(sess, cmd.TargetId)
	case internal.CommandUpdateSettings:
		var settings internal.Settings
		if err := decode(msg.Data, &settings); err != nil {
			return err
		}
		return g.engine.UpdateSettings(sess, settings)
	case internal.CommandKick:
		var cmd internal.KickCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return g.engine.Kick(sess, cmd.PlayerId)
	case internal.CommandListRooms:
		g.engine.ListRooms(sess)
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", internal.ErrProtocol, msg.Type)
}

// reply surfaces protocol and not-found errors to the caller only. State
// conflicts are logged and dropped.
func (g *Gateway) reply(sess *Session, command string, err error) {
	if err == nil {
		return
	}
	if !IsClientError(err) {
		g.log.Warn().Err(err).Str("player", sess.UserID()).Str("command", command).Msg("[reply] command ignored")
		return
	}
	g.log.Debug().Err(err).Str("player", sess.UserID()).Str("command", command).Msg("[reply] command rejected")
	g.engine.notify.Send(sess.Conn, event(internal.EventError, internal.ErrorData{
		Command: command,
		Message: err.Error(),
	}))
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", internal.ErrProtocol)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: invalid data: %v", internal.ErrProtocol, err)
	}
	return nil
}

// =============================================================================
// OUTBOUND CONNECTION
// =============================================================================

// wsConn queues outbound messages for a single writer goroutine. Send never
// blocks; a client that cannot keep up is disconnected.
type wsConn struct {
	id     string
	ws     *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newWSConn(ws *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		id:     utils.GenerateID(),
		ws:     ws,
		send:   make(chan []byte, buffer),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.closed:
		return errConnClosed
	default:
		_ = c.Close()
		return errBufferFull
	}
}

func (c *wsConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
	})
	return nil
}

func (c *wsConn) writePump(logger zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug().Err(err).Str("conn", c.id).Msg("[writePump] write failed")
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.closed:
			c.flush()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is still queued when the connection is closed.
func (c *wsConn) flush() {
	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}
