// Package config loads darwin client settings from a configuration file
// and the environment.
//
// The file layout follows the darwin CLI's ~/.darwin/config.yaml:
//
//	global:
//	  api_endpoint: https://darwin.v7labs.com/api/
//	  base_url: https://darwin.v7labs.com
//	  default_team: my-team
//	teams:
//	  my-team:
//	    api_key: xxxx
//	    datasets_dir: /home/me/.darwin/datasets
//
// The same structure can be written in TOML when the file name ends in
// ".toml".
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the name of the config directory in the home directory.
	DirName = ".darwin"

	// FileName is the name of the default config file.
	FileName = "config.yaml"

	// DefaultAPIEndpoint is used when no endpoint is configured.
	DefaultAPIEndpoint = "https://darwin.v7labs.com/api/"

	// DefaultBaseURL is the web application URL.
	DefaultBaseURL = "https://darwin.v7labs.com"
)

// Environment variables that override the file.
const (
	EnvAPIKey      = "DARWIN_API_KEY"
	EnvAPIEndpoint = "DARWIN_API_ENDPOINT"
	EnvTeam        = "DARWIN_TEAM"
)

var (
	// ErrNoTeam is returned by Resolve when no team was requested and no
	// default team is configured.
	ErrNoTeam = errors.New("no team selected")

	// ErrUnknownTeam is returned by Resolve for a team missing from the file.
	ErrUnknownTeam = errors.New("team not configured")

	// ErrNoAPIKey is returned by Resolve when the team has no API key.
	ErrNoAPIKey = errors.New("no API key")
)

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config is the parsed configuration.
type Config struct {
	Global Global          `yaml:"global" toml:"global"`
	Teams  map[string]Team `yaml:"teams" toml:"teams"`

	// envAPIKey is DARWIN_API_KEY when no team could receive it.
	envAPIKey string
}

// Global holds the settings shared by every team.
type Global struct {
	APIEndpoint string `yaml:"api_endpoint" toml:"api_endpoint"`
	BaseURL     string `yaml:"base_url" toml:"base_url"`
	DefaultTeam string `yaml:"default_team" toml:"default_team"`
}

// Team holds the credentials of one team.
type Team struct {
	APIKey      string `yaml:"api_key" toml:"api_key"`
	DatasetsDir string `yaml:"datasets_dir,omitempty" toml:"datasets_dir,omitempty"`
}

// Resolved is the configuration a client needs for one team.
type Resolved struct {
	APIEndpoint string
	Team        string
	APIKey      string
	DatasetsDir string
}

// Load reads ~/.darwin/config.yaml and applies the environment. A missing
// file is not an error: the environment alone can configure a client.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromDir(homeDir)
}

// LoadFromDir is Load with homeDir in place of the user's home directory.
func LoadFromDir(homeDir string) (*Config, error) {
	configPath := filepath.Join(homeDir, DirName, FileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.ApplyEnv(os.LookupEnv)
		cfg.applyDefaults()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads the file at path, choosing the format from its extension,
// then applies the environment and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// FormatOf returns the format implied by a file name. Anything but
// ".toml" is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes data without touching the environment.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return &cfg, nil
}

// ApplyEnv overrides the configuration from the environment through lookup
// (os.LookupEnv in production).
//
// DARWIN_TEAM replaces the default team and DARWIN_API_ENDPOINT the
// endpoint. DARWIN_API_KEY becomes the key of the default team, creating
// the team entry if needed; without a default team it is used by Resolve
// for whichever team is requested.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvTeam); ok && v != "" {
		c.Global.DefaultTeam = v
	}
	if v, ok := lookup(EnvAPIEndpoint); ok && v != "" {
		c.Global.APIEndpoint = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		team := c.Global.DefaultTeam
		if team == "" {
			c.envAPIKey = v
			return
		}
		if c.Teams == nil {
			c.Teams = make(map[string]Team)
		}
		t := c.Teams[team]
		t.APIKey = v
		c.Teams[team] = t
	}
}

func (c *Config) applyDefaults() {
	if c.Global.APIEndpoint == "" {
		c.Global.APIEndpoint = DefaultAPIEndpoint
	}
	if c.Global.BaseURL == "" {
		c.Global.BaseURL = DefaultBaseURL
	}
}

// Validate checks the endpoint URLs, every team entry, and that the default
// team, when set, is configured. Team entries may omit api_key when
// DARWIN_API_KEY supplies it.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Global),
		validation.Field(&c.Teams,
			validation.By(c.hasDefaultTeam),
			validation.Skip.When(c.envAPIKey != ""),
		),
	)
}

func (c Config) hasDefaultTeam(value interface{}) error {
	team := c.Global.DefaultTeam
	if team == "" || c.envAPIKey != "" {
		return nil
	}
	if _, ok := c.Teams[team]; !ok {
		return fmt.Errorf("default team %q is not configured", team)
	}
	return nil
}

// Validate checks the endpoint URLs.
func (g Global) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.APIEndpoint, validation.By(absoluteURL)),
		validation.Field(&g.BaseURL, validation.By(absoluteURL)),
	)
}

// Validate checks that the team has an API key.
func (t Team) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.APIKey, validation.Required),
	)
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// Resolve selects the settings of team, or of the default team when team
// is empty.
func (c *Config) Resolve(team string) (*Resolved, error) {
	if team == "" {
		team = c.Global.DefaultTeam
	}

	endpoint := c.Global.APIEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	r := &Resolved{APIEndpoint: endpoint, Team: team}
	t, ok := c.Teams[team]
	switch {
	case ok:
		r.APIKey = t.APIKey
		r.DatasetsDir = t.DatasetsDir
		if r.APIKey == "" {
			r.APIKey = c.envAPIKey
		}
	case c.envAPIKey != "":
		r.APIKey = c.envAPIKey
	case team == "":
		return nil, ErrNoTeam
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}

	if r.APIKey == "" {
		return nil, fmt.Errorf("%w for team %q", ErrNoAPIKey, team)
	}
	return r, nil
}
