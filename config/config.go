package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	ListenAddress string        `yaml:"listen_address"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

type Model struct {
	Name      string `yaml:"name"`
	APIKeyEnv string `yaml:"api_key_env"`
	// DisableWebSearch turns off Google Search grounding for the model call.
	DisableWebSearch bool `yaml:"disable_web_search"`
	// Timeout bounds a single model call. See Config.ModelCallTimeout.
	Timeout time.Duration `yaml:"timeout"`
}

type Search struct {
	DefaultLocation      string `yaml:"default_location"`
	DefaultTimeframeDays int    `yaml:"default_timeframe_days"`
}

type Web struct {
	ViewsDir       string   `yaml:"views_dir"`
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Discord struct {
	Enabled       bool   `yaml:"enabled"`
	TokenEnv      string `yaml:"token_env"`
	CommandPrefix string `yaml:"command_prefix"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	Model   Model   `yaml:"model"`
	Search  Search  `yaml:"search"`
	Web     Web     `yaml:"web"`
	Discord Discord `yaml:"discord"`
}

// Load reads the YAML config at path. A missing file is not an error: the
// returned config then carries only defaults.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	// Model calls with web search routinely take tens of seconds.
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 5 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Model.Name == "" {
		c.Model.Name = "gemini-2.5-pro"
	}
	if c.Model.APIKeyEnv == "" {
		c.Model.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Search.DefaultLocation == "" {
		c.Search.DefaultLocation = "Blaine, MN"
	}
	if c.Search.DefaultTimeframeDays <= 0 {
		c.Search.DefaultTimeframeDays = 14
	}
	if c.Web.ViewsDir == "" {
		c.Web.ViewsDir = "views"
	}
	if c.Web.StaticDir == "" {
		c.Web.StaticDir = "static"
	}
	if len(c.Web.AllowedOrigins) == 0 {
		c.Web.AllowedOrigins = []string{"*"}
	}
	if c.Discord.TokenEnv == "" {
		c.Discord.TokenEnv = "DISCORD_BOT_TOKEN"
	}
	if c.Discord.CommandPrefix == "" {
		c.Discord.CommandPrefix = "!events "
	}
}

// ModelCallTimeout is the timeout applied to each model call. A reply that
// arrives after the server's WriteTimeout can no longer be written, so an
// unset or longer model timeout is capped just below it.
func (c *Config) ModelCallTimeout() time.Duration {
	limit := c.Server.WriteTimeout - c.Server.WriteTimeout/20
	if limit <= 0 {
		return c.Model.Timeout
	}
	if c.Model.Timeout <= 0 || c.Model.Timeout > limit {
		return limit
	}
	return c.Model.Timeout
}

// APIKey returns the model API key from the configured environment variable.
func (m Model) APIKey() string {
	return os.Getenv(m.APIKeyEnv)
}

// Token returns the Discord bot token from the configured environment variable.
func (d Discord) Token() string {
	return os.Getenv(d.TokenEnv)
}
