// Package moderation cleans up player supplied display names.
package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

const (
	MaxNameLength     = 24
	MaxRoomNameLength = 40
	DefaultName       = "Guest"
)

// NameFilter masks banned words inside display names.
type NameFilter struct {
	matcher *goahocorasick.Machine
	mask    rune
}

func NewNameFilter(banned []string, mask rune) (*NameFilter, error) {
	patterns := make([][]rune, 0, len(banned))
	for _, word := range banned {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		patterns = append(patterns, []rune(word))
	}

	f := &NameFilter{mask: mask}
	if len(patterns) == 0 {
		return f, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	f.matcher = m
	return f, nil
}

// Clean trims, strips control characters, truncates and masks a display name.
// An empty result falls back to DefaultName.
func (f *NameFilter) Clean(name string) string {
	if cleaned := f.clean(name, MaxNameLength); cleaned != "" {
		return cleaned
	}
	return DefaultName
}

// CleanRoomName applies the same rules to a room name. An empty result is
// returned as is so the room store picks its default name.
func (f *NameFilter) CleanRoomName(name string) string {
	return f.clean(name, MaxRoomNameLength)
}

func (f *NameFilter) clean(name string, limit int) string {
	runes := make([]rune, 0, len(name))
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsControl(r) {
			continue
		}
		runes = append(runes, r)
		if len(runes) == limit {
			break
		}
	}
	cleaned := strings.TrimSpace(string(runes))
	if cleaned == "" || f == nil || f.matcher == nil {
		return cleaned
	}

	out := []rune(cleaned)
	lower := []rune(strings.ToLower(cleaned))
	if len(lower) != len(out) {
		// lowering changed the rune count; match case-sensitively instead
		lower = out
	}
	for _, term := range f.matcher.MultiPatternSearch(lower, false) {
		end := term.Pos + len(term.Word)
		if term.Pos < 0 || end > len(out) {
			continue
		}
		for i := term.Pos; i < end; i++ {
			out[i] = f.mask
		}
	}
	return string(out)
}
