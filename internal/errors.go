package internal

import "errors"

var (
	// ErrProtocol marks a malformed, out-of-phase or otherwise invalid command.
	ErrProtocol = errors.New("protocol error")
	// ErrNotFound marks an unknown room or player.
	ErrNotFound = errors.New("not found")
	// ErrStateConflict marks a host-only action attempted by someone else.
	ErrStateConflict = errors.New("state conflict")

	ErrDetached = errors.New("player has no live connection")
)
