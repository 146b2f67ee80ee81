package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"liftdesk/internal/eventbus"
)

// ErrUnknownScreen is returned when a screen name is not in the catalog
var ErrUnknownScreen = errors.New("unknown screen")

// Config represents the application configuration
type Config struct {
	Version     int         `toml:"version"`
	API         APISettings `toml:"api"`
	SessionFile string      `toml:"session_file" env:"LIFTDESK_SESSION_FILE"`
	LogLevel    string      `toml:"log_level" env:"LIFTDESK_LOG_LEVEL"`
	Screens     []Screen    `toml:"screens,omitempty"`
}

// APISettings describes how to reach the backend
type APISettings struct {
	BaseURL   string   `toml:"base_url" env:"LIFTDESK_API_URL"`
	Timeout   Duration `toml:"timeout" env:"LIFTDESK_TIMEOUT"`
	UserAgent string   `toml:"user_agent"`
}

// Duration is a time.Duration written as text ("30s") in TOML and env vars
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service rooted in the user's config dir
func NewConfigService() ConfigService {
	return &configService{filePath: filepath.Join(Dir(), "config.toml")}
}

// NewConfigServiceAt creates a config service backed by a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = filepath.Join(Dir(), "config.toml")
	}
	return &configService{filePath: path, bus: bus}
}

// Dir is the directory holding config and session files
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "liftdesk")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the config file, falling back to defaults when it does not
// exist. Environment variables override file values either way.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			BaseURL: cfg.API.BaseURL,
			Screens: cfg.ScreenNames(),
		})
	}
	return cfg, nil
}

// Save writes the config to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Screens = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any LIFTDESK_* variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:   "http://localhost:8000/api/v1",
			Timeout:   Duration{30 * time.Second},
			UserAgent: "LegendLift-Mobile-App",
		},
		SessionFile: filepath.Join(Dir(), "session.json"),
		LogLevel:    "info",
		Screens:     DefaultScreens(),
	}
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Timeout.Duration <= 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = def.API.UserAgent
	}
	if c.SessionFile == "" {
		c.SessionFile = def.SessionFile
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if len(c.Screens) == 0 {
		c.Screens = def.Screens
	}
	for i := range c.Screens {
		c.Screens[i].fillDefaults()
	}
}

// Validate checks the screen catalog for unusable definitions
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Screens))
	for _, s := range c.Screens {
		if s.Name == "" {
			return fmt.Errorf("screen with endpoint %q has no name", s.Endpoint)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate screen %q", s.Name)
		}
		seen[s.Name] = true
		if s.Endpoint == "" {
			return fmt.Errorf("screen %q has no endpoint", s.Name)
		}
		if s.MembersField != "" && s.MemberIDField == "" {
			return fmt.Errorf("screen %q sets members_field without member_id_field", s.Name)
		}
	}
	return nil
}

// Screen looks up a screen by name
func (c *Config) Screen(name string) (*Screen, error) {
	for i := range c.Screens {
		if c.Screens[i].Name == name {
			return &c.Screens[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
}

// ScreenNames lists screen names in catalog order
func (c *Config) ScreenNames() []string {
	names := make([]string, len(c.Screens))
	for i, s := range c.Screens {
		names[i] = s.Name
	}
	return names
}
