package game

import (
	"fmt"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/utils"
	"github.com/samber/lo"
)

// RequirementPool draws a duplicate-free pool of TotalRequirements prompts
// from the short or long catalog list.
func RequirementPool(catalog *utils.Catalog, settings internal.Settings) ([]string, error) {
	descriptions := catalog.Descriptions(settings.UseLongDescriptions)
	if len(descriptions) < settings.TotalRequirements {
		return nil, fmt.Errorf("catalog has %d descriptions, %d requested",
			len(descriptions), settings.TotalRequirements)
	}
	return lo.Samples(descriptions, settings.TotalRequirements), nil
}

// AssignRequirements picks the subset of the pool one participant has to
// draw. Evil participants get fewer items.
func AssignRequirements(pool []string, settings internal.Settings, isEvil bool) []string {
	count := settings.GoodRequirementCount
	if isEvil {
		count = settings.EvilRequirementCount
	}
	return lo.Samples(pool, count)
}
