package internal

import "time"

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Server -> client events.
const (
	EventIdentityAssigned       = "identity-assigned"
	EventPhaseChanged           = "phase-changed"
	EventPhaseEnded             = "phase-ended"
	EventParticipantListChanged = "participant-list-changed"
	EventReadyChanged           = "ready-changed"
	EventSettingsChanged        = "settings-changed"
	EventRoomList               = "room-list"
	EventRoomCreated            = "room-created"
	EventPlayerJoined           = "player-joined"
	EventPlayerLeft             = "player-left"
	EventError                  = "error"
)

// Client -> server commands.
const (
	CommandCreateRoom     = "create-room"
	CommandJoinRoom       = "join-room"
	CommandLeaveRoom      = "leave-room"
	CommandToggleReady    = "toggle-ready"
	CommandCastVote       = "cast-vote"
	CommandUpdateSettings = "update-settings"
	CommandKick           = "kick"
	CommandListRooms      = "list-rooms"
)

const (
	ReasonAllReady = "AllReady"
	ReasonTimeout  = "Timeout"
)

type IdentityAssignedData struct {
	UserId      string `json:"userId"`
	Token       string `json:"identityToken"`
	DisplayName string `json:"displayName"`
}

type PhaseChangedData struct {
	Phase   GamePhase `json:"phase"`
	Payload any       `json:"payload"`
}

type PhaseEndedData struct {
	Phase  GamePhase `json:"phase"`
	Reason string    `json:"reason"`
}

type ParticipantListData struct {
	RoomId       string           `json:"roomId"`
	HostId       string           `json:"hostId"`
	Participants []PlayerSnapshot `json:"participants"`
}

type ReadyChangedData struct {
	PlayerId string `json:"playerId"`
	IsReady  bool   `json:"isReady"`
}

type RoomListData struct {
	Rooms []RoomListEntry `json:"rooms"`
}

type RoomCreatedData struct {
	RoomId   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

type PlayerPresenceData struct {
	PlayerId    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	RoomId      string `json:"roomId"`
}

type ErrorData struct {
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

// Phase payloads carried by phase-changed.

type LobbyMessage struct {
	Participants []PlayerSnapshot `json:"participants"`
	Settings     Settings         `json:"settings"`
	HostId       string           `json:"hostId"`
	RoundNumber  int              `json:"roundNumber"`
}

type DrawingMessage struct {
	IsPlayerEvil     bool      `json:"isPlayerEvil"`
	MaskDescriptions []string  `json:"maskDescriptions"`
	PhaseEndsAt      time.Time `json:"phaseEndsAt"`
	RoundNumber      int       `json:"roundNumber"`
}

type VotingMessage struct {
	Masks        map[string]string `json:"masks"`
	Participants []PlayerSnapshot  `json:"participants"`
	PhaseEndsAt  time.Time         `json:"phaseEndsAt"`
}

type CutsceneMessage struct {
	PlayAlternativeCutscene bool       `json:"playAlternativeCutscene"`
	PhaseEndsAt             *time.Time `json:"phaseEndsAt,omitempty"`
}

type ScoreboardMessage struct {
	Participants []PlayerSnapshot `json:"participants"`
	Result       *RoundResult     `json:"result"`
	RoundNumber  int              `json:"roundNumber"`
	Rounds       int              `json:"rounds"`
	GameOver     bool             `json:"gameOver"`
}

// Command payloads.

type CreateRoomCommand struct {
	Name string `json:"name"`
}

type JoinRoomCommand struct {
	RoomId string `json:"roomId"`
}

type CastVoteCommand struct {
	TargetId string `json:"targetId"`
}

type KickCommand struct {
	PlayerId string `json:"playerId"`
}
