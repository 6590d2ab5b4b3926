package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Settings struct {
	DrawingTimeSeconds   int  `json:"drawingTimeSeconds" validate:"min=10,max=600"`
	VotingTimeSeconds    int  `json:"votingTimeSeconds" validate:"min=5,max=300"`
	Rounds               int  `json:"rounds" validate:"min=1,max=20"`
	TotalRequirements    int  `json:"totalRequirements" validate:"min=1,max=30"`
	GoodRequirementCount int  `json:"goodRequirementCount" validate:"min=1,ltefield=TotalRequirements"`
	EvilRequirementCount int  `json:"evilRequirementCount" validate:"min=1,ltfield=GoodRequirementCount"`
	UseLongDescriptions  bool `json:"useLongDescriptions"`
	PlayCutscenes        bool `json:"playCutscenes"`
	CutsceneTimeSeconds  int  `json:"cutsceneTimeSeconds" validate:"min=1,max=60"`
}

func DefaultSettings() Settings {
	return Settings{
		DrawingTimeSeconds:   120,
		VotingTimeSeconds:    30,
		Rounds:               5,
		TotalRequirements:    6,
		GoodRequirementCount: 4,
		EvilRequirementCount: 2,
		UseLongDescriptions:  false,
		PlayCutscenes:        true,
		CutsceneTimeSeconds:  8,
	}
}

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: invalid settings: %v", ErrProtocol, err)
	}
	return nil
}

// PhaseDuration is the deadline length of a timed phase, zero for phases
// that only advance on ready.
func (s Settings) PhaseDuration(phase GamePhase) time.Duration {
	switch {
	case phase == PhaseDrawing:
		return time.Duration(s.DrawingTimeSeconds) * time.Second
	case phase == PhaseVoting:
		return time.Duration(s.VotingTimeSeconds) * time.Second
	case phase.IsCutscene():
		return time.Duration(s.CutsceneTimeSeconds) * time.Second
	}
	return 0
}
