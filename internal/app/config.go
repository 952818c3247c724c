package app

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/specialistvlad/suiteplan/internal/render"
)

// Commands lists every supported command and whether it takes a target.
var Commands = map[string]TargetRule{
	"plan":       NoTarget,
	"closure":    TargetRequired,
	"content":    TargetRequired,
	"monolithic": TargetRequired,
	"overlaps":   TargetOptional,
	"checkstyle": TargetRequired,
	"resolve":    NoTarget,
	"validate":   NoTarget,
}

// TargetRule describes a command's positional argument.
type TargetRule int

const (
	NoTarget TargetRule = iota
	TargetOptional
	TargetRequired
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string
	Command       string
	Target        string

	CacheDir     string
	Workers      int
	FetchTimeout time.Duration
	Offline      bool

	BundleLibraries bool
	StripProvided   bool

	EventsURL string

	LogFormat string
	LogLevel  string
	Output    string
}

// Defaults returns the configuration used when neither flags nor a settings
// file say otherwise.
func Defaults() Config {
	return Config{
		ManifestPaths: []string{"."},
		Workers:       4,
		FetchTimeout:  2 * time.Minute,
		LogFormat:     "text",
		LogLevel:      "info",
		Output:        string(render.Text),
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	rule, ok := Commands[cfg.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	switch {
	case rule == TargetRequired && cfg.Target == "":
		return nil, fmt.Errorf("command %q requires a target identifier", cfg.Command)
	case rule == NoTarget && cfg.Target != "":
		return nil, fmt.Errorf("command %q takes no target, got %q", cfg.Command, cfg.Target)
	}
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if !slices.Contains([]string{"text", "json", "pretty"}, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text', 'json' or 'pretty'", cfg.LogFormat)
	}
	if _, err := render.ParseFormat(cfg.Output); err != nil {
		return nil, err
	}
	cfg.ManifestPaths = slices.Clone(cfg.ManifestPaths)
	return &cfg, nil
}

// Settings is the optional TOML settings file. Unset fields leave the
// corresponding configuration untouched.
type Settings struct {
	Manifests       []string `toml:"manifests"`
	CacheDir        *string  `toml:"cache_dir"`
	Workers         *int     `toml:"workers"`
	FetchTimeout    *string  `toml:"fetch_timeout"`
	Offline         *bool    `toml:"offline"`
	BundleLibraries *bool    `toml:"bundle_libraries"`
	StripProvided   *bool    `toml:"strip_provided"`
	EventsURL       *string  `toml:"events_url"`
	LogFormat       *string  `toml:"log_format"`
	LogLevel        *string  `toml:"log_level"`
	Output          *string  `toml:"output"`
}

// LoadSettings reads a settings file. Unknown keys are an error.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening settings file: %w", err)
	}
	defer f.Close()

	var s Settings
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding settings file %s: %w", path, err)
	}
	return &s, nil
}

// Apply overlays the settings onto cfg, skipping fields for which skip
// returns true. Keys passed to skip are the flag names.
func (s *Settings) Apply(cfg *Config, skip func(flag string) bool) error {
	if len(s.Manifests) > 0 && !skip("manifest") {
		cfg.ManifestPaths = slices.Clone(s.Manifests)
	}
	setString(&cfg.CacheDir, s.CacheDir, skip("cache-dir"))
	setString(&cfg.EventsURL, s.EventsURL, skip("events-url"))
	setString(&cfg.LogFormat, s.LogFormat, skip("log-format"))
	setString(&cfg.LogLevel, s.LogLevel, skip("log-level"))
	setString(&cfg.Output, s.Output, skip("output"))
	setBool(&cfg.Offline, s.Offline, skip("offline"))
	setBool(&cfg.BundleLibraries, s.BundleLibraries, skip("bundle-libraries"))
	setBool(&cfg.StripProvided, s.StripProvided, skip("strip-provided"))
	if s.Workers != nil && !skip("workers") {
		cfg.Workers = *s.Workers
	}
	if s.FetchTimeout != nil && !skip("fetch-timeout") {
		d, err := time.ParseDuration(*s.FetchTimeout)
		if err != nil {
			return fmt.Errorf("settings: invalid fetch_timeout: %w", err)
		}
		cfg.FetchTimeout = d
	}
	return nil
}

func setString(dst *string, v *string, skip bool) {
	if v != nil && !skip {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool, skip bool) {
	if v != nil && !skip {
		*dst = *v
	}
}
