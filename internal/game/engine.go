package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/moderation"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/store"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/utils"
	"github.com/rs/zerolog"
)

const DefaultReconnectGrace = 30 * time.Second

type Options struct {
	Rooms       *store.Rooms
	Players     *store.Players
	Broadcaster *Broadcaster
	Catalog     *utils.Catalog
	Names       *moderation.NameFilter
	Archive     Archive
	Defaults    internal.Settings

	// ReconnectGrace is how long a room without attached participants is
	// kept before it is removed.
	ReconnectGrace time.Duration
	Logger         zerolog.Logger
}

// Engine runs every room of the process: commands from the gateway, phase
// transitions and timers.
type Engine struct {
	rooms    *store.Rooms
	players  *store.Players
	notify   *Broadcaster
	catalog  *utils.Catalog
	names    *moderation.NameFilter
	archive  Archive
	defaults internal.Settings
	grace    time.Duration
	log      zerolog.Logger
}

func NewEngine(opts Options) (*Engine, error) {
	e := &Engine{
		rooms:    opts.Rooms,
		players:  opts.Players,
		notify:   opts.Broadcaster,
		catalog:  opts.Catalog,
		names:    opts.Names,
		archive:  opts.Archive,
		defaults: opts.Defaults,
		grace:    opts.ReconnectGrace,
		log:      opts.Logger.With().Str("component", "game").Logger(),
	}
	if e.rooms == nil {
		e.rooms = store.NewRooms()
	}
	if e.players == nil {
		e.players = store.NewPlayers()
	}
	if e.notify == nil {
		e.notify = NewBroadcaster(opts.Logger)
	}
	if e.catalog == nil {
		e.catalog = utils.DefaultCatalog()
	}
	if e.grace <= 0 {
		e.grace = DefaultReconnectGrace
	}
	if err := e.validateSettings(e.defaults); err != nil {
		return nil, fmt.Errorf("default settings: %w", err)
	}
	return e, nil
}

func (e *Engine) Rooms() *store.Rooms         { return e.rooms }
func (e *Engine) Players() *store.Players     { return e.players }
func (e *Engine) Broadcaster() *Broadcaster   { return e.notify }
func (e *Engine) Defaults() internal.Settings { return e.defaults }

// validateSettings checks the field ranges and that the catalog can fill a
// duplicate-free pool of the requested size.
func (e *Engine) validateSettings(s internal.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if available := e.catalog.MaxPool(s.UseLongDescriptions); s.TotalRequirements > available {
		return fmt.Errorf("%w: totalRequirements %d exceeds the %d available descriptions",
			internal.ErrProtocol, s.TotalRequirements, available)
	}
	return nil
}

// IsClientError reports whether err should be surfaced to the issuing
// connection rather than only logged.
func IsClientError(err error) bool {
	return errors.Is(err, internal.ErrProtocol) || errors.Is(err, internal.ErrNotFound)
}
