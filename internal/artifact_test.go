package internal

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1PeAAAADElEQVR4nGP4z8AAAAMBAQDJ/pLvAAAAAElFTkSuQmCC"

func TestDecodeArtifact(t *testing.T) {
	req := require.New(t)

	dataURL := "data:image/png;base64," + pngBase64
	got, err := DecodeArtifact(dataURL)
	req.NoError(err)
	req.Equal(dataURL, got)

	got, err = DecodeArtifact("  " + pngBase64 + "\n")
	req.NoError(err)
	req.Equal(pngBase64, got)
}

func TestDecodeArtifact_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":         "   ",
		"not base64":    "data:image/png;base64,***",
		"not an image":  base64.StdEncoding.EncodeToString([]byte("hello world")),
		"plain dataurl": "data:image/png," + pngBase64,
		"too large":     strings.Repeat("A", MaxArtifactBytes*2),
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeArtifact(input)
			require.ErrorIs(t, err, ErrProtocol)
		})
	}
}
