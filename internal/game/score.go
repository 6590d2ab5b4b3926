package game

import (
	"errors"
	"fmt"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/samber/lo"
)

const (
	EvilWinPoints     = 20
	EvilTiePoints     = 10
	GoodWinPoints     = 5
	CorrectVotePoints = 5
)

var errNoEvil = errors.New("round has no evil participant")

// Tally counts the votes of the participants still in the room and resolves
// the outcome. It does not touch the room.
//
// The most voted targets form the candidate set; more than one candidate,
// or no vote at all, is a tie. A single candidate is a good win when it is
// the evil participant.
func Tally(participants []*internal.PlayerRoundState) (internal.RoundResult, error) {
	evils := lo.Filter(participants, func(s *internal.PlayerRoundState, _ int) bool {
		return s.IsEvil
	})
	if len(evils) == 0 {
		return internal.RoundResult{}, errNoEvil
	}
	if len(evils) > 1 {
		return internal.RoundResult{}, fmt.Errorf("round has %d evil participants", len(evils))
	}
	evilID := evils[0].Player.UserId

	result := internal.RoundResult{
		EvilID:        evilID,
		VoteCounts:    make(map[string]int),
		CorrectVoters: make([]string, 0),
	}
	for _, state := range participants {
		if state.Removed || state.Vote == "" {
			continue
		}
		result.VoteCounts[state.Vote]++
		if state.Vote == evilID && !state.IsEvil {
			result.CorrectVoters = append(result.CorrectVoters, state.Player.UserId)
		}
	}

	maxVotes := lo.Max(lo.Values(result.VoteCounts))
	candidates := lo.Keys(lo.PickByValues(result.VoteCounts, []int{maxVotes}))

	switch {
	case maxVotes == 0 || len(candidates) != 1:
		result.Outcome = internal.OutcomeTie
	case candidates[0] == evilID:
		result.Outcome = internal.OutcomeGoodWin
		result.MostVotedID = candidates[0]
	default:
		result.Outcome = internal.OutcomeEvilWin
		result.MostVotedID = candidates[0]
	}
	return result, nil
}

// ApplyScores adds the points of result to the participants and returns what
// each one was awarded.
func ApplyScores(participants []*internal.PlayerRoundState, result *internal.RoundResult) map[string]int {
	awarded := make(map[string]int)
	award := func(state *internal.PlayerRoundState, points int) {
		state.Score += points
		awarded[state.Player.UserId] += points
	}
	correct := lo.SliceToMap(result.CorrectVoters, func(id string) (string, bool) {
		return id, true
	})

	for _, state := range participants {
		switch result.Outcome {
		case internal.OutcomeEvilWin:
			if state.IsEvil {
				award(state, EvilWinPoints)
			}
		case internal.OutcomeTie:
			if state.IsEvil {
				award(state, EvilTiePoints)
			}
		case internal.OutcomeGoodWin:
			if state.IsEvil || state.Removed {
				continue
			}
			award(state, GoodWinPoints)
			if correct[state.Player.UserId] {
				award(state, CorrectVotePoints)
			}
		}
	}
	return awarded
}

// tallyRound resolves the round that just left Voting. A tally failure never
// blocks the transition; it falls back to a tie. Caller holds room.Mu.
func (e *Engine) tallyRound(room *internal.Room) *internal.RoundResult {
	result, err := Tally(room.Participants)
	if err != nil {
		e.log.Error().Err(err).Str("room", room.Id).Msg("[tallyRound] falling back to tie")
		result = internal.RoundResult{
			Outcome:       internal.OutcomeTie,
			VoteCounts:    make(map[string]int),
			CorrectVoters: make([]string, 0),
		}
		if evil := room.Evil(); evil != nil {
			result.EvilID = evil.Player.UserId
		}
	}
	result.Round = room.RoundNumber

	e.log.Info().
		Str("room", room.Id).
		Int("round", result.Round).
		Str("outcome", string(result.Outcome)).
		Str("evil", result.EvilID).
		Msg("[tallyRound] votes counted")
	return &result
}
