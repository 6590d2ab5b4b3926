package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool          `envconfig:"LOG_PRETTY" default:"false"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	ReconnectGrace time.Duration `envconfig:"RECONNECT_GRACE" default:"30s"`
	SendBuffer     int           `envconfig:"SEND_BUFFER" default:"64"`

	DescriptionsFile string   `envconfig:"DESCRIPTIONS_FILE"`
	BannedNames      []string `envconfig:"BANNED_NAMES"`

	Defaults GameDefaults
}

// GameDefaults seed the settings of every new room.
type GameDefaults struct {
	DrawingTimeSeconds   int  `envconfig:"DRAWING_TIME_SECONDS" default:"120"`
	VotingTimeSeconds    int  `envconfig:"VOTING_TIME_SECONDS" default:"30"`
	Rounds               int  `envconfig:"ROUNDS" default:"5"`
	TotalRequirements    int  `envconfig:"TOTAL_REQUIREMENTS" default:"6"`
	GoodRequirementCount int  `envconfig:"GOOD_REQUIREMENT_COUNT" default:"4"`
	EvilRequirementCount int  `envconfig:"EVIL_REQUIREMENT_COUNT" default:"2"`
	UseLongDescriptions  bool `envconfig:"USE_LONG_DESCRIPTIONS" default:"false"`
	PlayCutscenes        bool `envconfig:"PLAY_CUTSCENES" default:"true"`
	CutsceneTimeSeconds  int  `envconfig:"CUTSCENE_TIME_SECONDS" default:"8"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Settings().Validate(); err != nil {
		return Config{}, fmt.Errorf("config error: default game settings: %w", err)
	}
	return cfg, nil
}

func (c Config) Settings() internal.Settings {
	return internal.Settings{
		DrawingTimeSeconds:   c.Defaults.DrawingTimeSeconds,
		VotingTimeSeconds:    c.Defaults.VotingTimeSeconds,
		Rounds:               c.Defaults.Rounds,
		TotalRequirements:    c.Defaults.TotalRequirements,
		GoodRequirementCount: c.Defaults.GoodRequirementCount,
		EvilRequirementCount: c.Defaults.EvilRequirementCount,
		UseLongDescriptions:  c.Defaults.UseLongDescriptions,
		PlayCutscenes:        c.Defaults.PlayCutscenes,
		CutsceneTimeSeconds:  c.Defaults.CutsceneTimeSeconds,
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
