package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"sigs.k8s.io/yaml"
)

const (
	DefaultListenAddress  = ":8190"
	DefaultCORSOrigin     = "http://localhost:8190"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultSessionURL     = "http://localhost:8787"
	DefaultSessionTimeout = 30 * time.Second
)

var (
	ErrConfig         apperrors.Error = apperrors.New("error in configuration").SetExpandError(true)
	ErrConfigRead     apperrors.Error = ErrConfig.New("unable to read configuration")
	ErrConfigDecode   apperrors.Error = ErrConfig.New("unable to decode configuration")
	ErrConfigBaseline apperrors.Error = ErrConfig.New("invalid baseline configuration")
)

type ServerConfig struct {
	ListenAddress string           `toml:"listen_address" json:"listen_address"`
	HandleCORS    bool             `toml:"handle_cors" json:"handle_cors"`
	CORSOrigin    string           `toml:"cors_origin" json:"cors_origin"`
	LogLevel      string           `toml:"log_level" json:"log_level"`
	LogFormat     string           `toml:"log_format" json:"log_format"`
	Session       SessionConfig    `toml:"session" json:"session"`
	Baselines     []BaselineConfig `toml:"baseline" json:"baseline"`
}

type SessionConfig struct {
	URL        string   `toml:"url" json:"url"`
	ClientID   string   `toml:"client_id" json:"client_id"`
	Timeout    Duration `toml:"timeout" json:"timeout"`
	RetryCount int      `toml:"retry_count" json:"retry_count"`
}

// BaselineConfig is one entry of the ordered baseline table.
type BaselineConfig struct {
	Label  string `toml:"label" json:"label"`
	Header bool   `toml:"header" json:"header"`
	Sep    string `toml:"sep" json:"sep"`
	Quote  string `toml:"quote" json:"quote"`
}

// Duration reads values such as "30s" from both TOML and YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var current atomic.Pointer[ServerConfig]

// Config returns the active configuration, or the defaults if none was set.
func Config() *ServerConfig {
	if c := current.Load(); c != nil {
		return c
	}
	c := Default()
	current.CompareAndSwap(nil, c)
	return current.Load()
}

func SetConfig(c *ServerConfig) {
	current.Store(c)
}

func Default() *ServerConfig {
	c := &ServerConfig{}
	c.applyDefaults()
	return c
}

// LoadConfig reads a TOML file, or a YAML file when the name ends in .yaml
// or .yml, and fills in defaults for everything it leaves unset.
func LoadConfig(path string) (*ServerConfig, apperrors.Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrConfigRead.Err(err)
	}
	c := &ServerConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, ErrConfigDecode.Err(err)
		}
	default:
		if _, err := toml.Decode(string(data), c); err != nil {
			return nil, ErrConfigDecode.Err(err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.ListenAddress == "" {
		c.ListenAddress = DefaultListenAddress
	}
	if c.CORSOrigin == "" {
		c.CORSOrigin = DefaultCORSOrigin
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.Session.URL == "" {
		c.Session.URL = DefaultSessionURL
	}
	if c.Session.Timeout.Duration == 0 {
		c.Session.Timeout.Duration = DefaultSessionTimeout
	}
}

func (c *ServerConfig) validate() apperrors.Error {
	seen := make(map[string]struct{}, len(c.Baselines))
	for _, b := range c.Baselines {
		if b.Label == "" {
			return ErrConfigBaseline.Msg("baseline without a label")
		}
		if _, ok := seen[b.Label]; ok {
			return ErrConfigBaseline.Msg("duplicate baseline " + b.Label)
		}
		seen[b.Label] = struct{}{}
	}
	return nil
}

// BaselineProfiles returns the configured baseline table in file order. It
// is empty when the file configures none.
func (c *ServerConfig) BaselineProfiles() []types.BaselineProfile {
	profiles := make([]types.BaselineProfile, 0, len(c.Baselines))
	for _, b := range c.Baselines {
		profiles = append(profiles, types.BaselineProfile{
			Label: b.Label,
			FormatProfile: types.FormatProfile{
				Header: b.Header,
				Sep:    b.Sep,
				Quote:  b.Quote,
			},
		})
	}
	return profiles
}
