package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a fresh opaque identifier.
func GenerateID() string {
	return uuid.NewString()
}

// NewIdentityToken mints a device token for clients that connect without one.
func NewIdentityToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
