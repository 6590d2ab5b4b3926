//go:generate go run go.uber.org/mock/mockgen -source=archive.go -destination=../mocks/mock_archive.go -package=mocks
package game

import (
	"context"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
)

// Archive receives every finished round. It is optional.
type Archive interface {
	RecordRound(ctx context.Context, record internal.RoundRecord) error
}
