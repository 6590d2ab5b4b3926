package internal

import (
	"context"
	"sync"
	"time"
)

const (
	MinPlayersToStart = 3
)

type GamePhase string

const (
	PhaseUserSelect          GamePhase = "user_select"
	PhaseLobby               GamePhase = "lobby"
	PhaseCutsceneOpening     GamePhase = "cutscene_opening"
	PhaseDrawing             GamePhase = "drawing"
	PhaseCutsceneMakeTheMask GamePhase = "cutscene_make_the_mask"
	PhaseVoting              GamePhase = "voting"
	PhaseCutsceneTheChoice   GamePhase = "cutscene_the_choice"
	PhaseScoreboard          GamePhase = "scoreboard"
)

// IsCutscene reports whether the phase is one of the narrative interludes.
func (p GamePhase) IsCutscene() bool {
	switch p {
	case PhaseCutsceneOpening, PhaseCutsceneMakeTheMask, PhaseCutsceneTheChoice:
		return true
	}
	return false
}

// Next returns the phase that follows p in the round cycle.
func (p GamePhase) Next(cutscenes bool) GamePhase {
	switch p {
	case PhaseUserSelect:
		return PhaseLobby
	case PhaseLobby:
		if cutscenes {
			return PhaseCutsceneOpening
		}
		return PhaseDrawing
	case PhaseCutsceneOpening:
		return PhaseDrawing
	case PhaseDrawing:
		if cutscenes {
			return PhaseCutsceneMakeTheMask
		}
		return PhaseVoting
	case PhaseCutsceneMakeTheMask:
		return PhaseVoting
	case PhaseVoting:
		if cutscenes {
			return PhaseCutsceneTheChoice
		}
		return PhaseScoreboard
	case PhaseCutsceneTheChoice:
		return PhaseScoreboard
	default:
		return PhaseLobby
	}
}

type Outcome string

const (
	OutcomeGoodWin Outcome = "good_win"
	OutcomeEvilWin Outcome = "evil_win"
	OutcomeTie     Outcome = "tie"
)

// PhaseState is written only by the orchestrator, with Room.Mu held.
type PhaseState struct {
	Current  GamePhase  `json:"phase"`
	Deadline *time.Time `json:"phase_ends_at,omitempty"`

	// Generation changes on every transition and every armed timer; a timer
	// whose generation no longer matches is stale.
	Generation uint64             `json:"-"`
	Cancel     context.CancelFunc `json:"-"`
}

type PlayerRoundState struct {
	Player       *Player  `json:"-"`
	IsEvil       bool     `json:"-"`
	Artifact     string   `json:"-"`
	Vote         string   `json:"-"`
	Score        int      `json:"score"`
	Requirements []string `json:"-"`
	Removed      bool     `json:"removed"`
}

type RoundResult struct {
	Round         int            `json:"round"`
	Outcome       Outcome        `json:"outcome"`
	EvilID        string         `json:"evil_id"`
	MostVotedID   string         `json:"most_voted_id,omitempty"`
	VoteCounts    map[string]int `json:"vote_counts"`
	CorrectVoters []string       `json:"correct_voters"`
	Awarded       map[string]int `json:"awarded"`
}

type Room struct {
	Id        string
	Name      string
	CreatedAt time.Time

	Settings Settings

	// Join order; the first non-removed entry is the host.
	Participants []*PlayerRoundState

	Phase        PhaseState
	Requirements []string
	RoundNumber  int
	Result       *RoundResult

	// Closed is set once the room has been removed from the store.
	Closed bool

	Mu sync.Mutex `json:"-"`
}

type RoomListEntry struct {
	RoomId       string    `json:"roomId"`
	RoomName     string    `json:"roomName"`
	CurrentPhase GamePhase `json:"currentPhase"`
	PlayerCount  int       `json:"playerCount"`
}

// RoundRecord is what the archive keeps of a finished round.
type RoundRecord struct {
	RoomId     string         `json:"room_id"`
	RoomName   string         `json:"room_name"`
	Round      int            `json:"round"`
	Outcome    Outcome        `json:"outcome"`
	EvilId     string         `json:"evil_id"`
	Players    int            `json:"players"`
	Awarded    map[string]int `json:"awarded"`
	Scores     map[string]int `json:"scores"`
	FinishedAt time.Time      `json:"finished_at"`
}

type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
