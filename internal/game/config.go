package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the process-level knobs: loop rate, window, input bindings and
// which level to load. Gameplay tuning lives in level files.
type Settings struct {
	TickRate     int                 `mapstructure:"tick_rate"`
	TurnDuration float64             `mapstructure:"turn_duration"` // 0 = use the level's
	Window       WindowSettings      `mapstructure:"window"`
	LevelPath    string              `mapstructure:"level_path"` // empty = embedded default
	Seed         int64               `mapstructure:"seed"`
	Keys         map[string][]string `mapstructure:"keys"`
	Metrics      MetricsSettings     `mapstructure:"metrics"`
	VerboseLog   bool                `mapstructure:"verbose_log"`
}

type WindowSettings struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type MetricsSettings struct {
	Namespace string `mapstructure:"namespace"`
	Addr      string `mapstructure:"addr"` // empty = no HTTP endpoint
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		TickRate: 60,
		Window:   WindowSettings{Width: 1280, Height: 720, Title: "Gravity Siege"},
		Seed:     1,
		Keys:     DefaultBindings(),
		Metrics:  MetricsSettings{Namespace: defaultMetricsNamespace},
	}
}

// LoadSettings layers defaults, an optional YAML file and GRAVSIEGE_*
// environment variables. With path empty, gravity-siege.yaml is looked up in
// the working directory and its absence is not an error.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	def := DefaultSettings()
	v.SetDefault("tick_rate", def.TickRate)
	v.SetDefault("turn_duration", def.TurnDuration)
	v.SetDefault("window.width", def.Window.Width)
	v.SetDefault("window.height", def.Window.Height)
	v.SetDefault("window.title", def.Window.Title)
	v.SetDefault("level_path", def.LevelPath)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("keys", def.Keys)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	v.SetDefault("metrics.addr", def.Metrics.Addr)
	v.SetDefault("verbose_log", def.VerboseLog)

	v.SetEnvPrefix("GRAVSIEGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gravity-siege")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	// Bindings missing from the file keep their defaults.
	for action, keys := range def.Keys {
		if len(s.Keys[action]) == 0 {
			if s.Keys == nil {
				s.Keys = map[string][]string{}
			}
			s.Keys[action] = keys
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges and binding names.
func (s Settings) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate %d", ErrInvalidConfig, s.TickRate)
	}
	if s.TurnDuration < 0 {
		return fmt.Errorf("%w: turn_duration %.2f", ErrInvalidConfig, s.TurnDuration)
	}
	if s.Window.Width <= feedPanelWidth || s.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d, width must exceed the %dpx event panel",
			ErrInvalidConfig, s.Window.Width, s.Window.Height, feedPanelWidth)
	}
	for name := range s.Keys {
		if _, err := ParseAction(name); err != nil {
			return err
		}
	}
	return nil
}

// DT is the fixed frame step in seconds.
func (s Settings) DT() float64 { return 1 / float64(s.TickRate) }
