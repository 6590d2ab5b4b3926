package internal

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxArtifactBytes = 2 << 20

// DecodeArtifact validates an uploaded mask. The client sends either a data
// URL ("data:image/png;base64,...") or bare base64; the decoded bytes must
// sniff as an image. The trimmed input is what gets stored.
func DecodeArtifact(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", fmt.Errorf("%w: mask is empty", ErrProtocol)
	}

	payload := encoded
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return "", fmt.Errorf("%w: mask data url must be base64 encoded", ErrProtocol)
		}
		payload = payload[comma+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxArtifactBytes {
		return "", fmt.Errorf("%w: mask exceeds %d bytes", ErrProtocol, MaxArtifactBytes)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: mask is not valid base64: %v", ErrProtocol, err)
	}

	mtype := mimetype.Detect(raw)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: mask must be an image, got %s", ErrProtocol, mtype.String())
	}
	return encoded, nil
}
