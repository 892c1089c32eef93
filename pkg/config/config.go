package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/navmenu/pkg/activation"
	"github.com/mchmarny/navmenu/pkg/server"
)

// Config holds all navmenu configuration.
type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server"`

	// Menu source
	Menu MenuConfig `yaml:"menu"`

	// Activation engine settings
	Activation ActivationConfig `yaml:"activation"`

	// Favorites persistence
	Favorites FavoritesConfig `yaml:"favorites"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP shell.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`

	// TLS is enabled when both files are set.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// TLS returns the server TLS settings, or nil when TLS is not configured.
func (s ServerConfig) TLS() *server.TLSConfig {
	if s.CertFile == "" || s.KeyFile == "" {
		return nil
	}
	return &server.TLSConfig{CertFile: s.CertFile, KeyFile: s.KeyFile}
}

// MenuConfig configures where the menu tree comes from.
type MenuConfig struct {
	Path string `yaml:"path"`

	// Watch reloads the menu when the file changes.
	Watch bool `yaml:"watch"`

	// StartPath is the location before the first navigation.
	StartPath string `yaml:"start_path"`
}

// ActivationConfig configures the activation orchestrator.
type ActivationConfig struct {
	Production  bool                    `yaml:"production"`
	DeployRoot  string                  `yaml:"deploy_root"`
	Accordion   bool                    `yaml:"accordion"`
	LegacyRules []activation.LegacyRule `yaml:"legacy_rules"`
}

// FavoritesConfig configures the favorites store. An empty DBPath keeps
// favorites in memory.
type FavoritesConfig struct {
	DBPath string `yaml:"db_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultDeployRoot is the sub-path production builds are served under.
const DefaultDeployRoot = "/velzon/angular/master"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: server.DefaultPort},
		Menu:   MenuConfig{Path: "menu.yaml", StartPath: "/"},
		Activation: ActivationConfig{
			DeployRoot:  DefaultDeployRoot,
			LegacyRules: activation.DefaultLegacyRules,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads configuration from path on top of the defaults. An empty path
// returns the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NAVMENU_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("NAVMENU_MENU"); v != "" {
		c.Menu.Path = v
	}
	if v := os.Getenv("NAVMENU_FAVORITES_DB"); v != "" {
		c.Favorites.DBPath = v
	}
	if v := os.Getenv("NAVMENU_PRODUCTION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Activation.Production = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Menu.Path == "" {
		return fmt.Errorf("menu path is required")
	}
	return nil
}

// PathTransform returns the location transform for the activation engine.
func (c *Config) PathTransform() activation.PathTransform {
	return activation.PathTransform{
		Production: c.Activation.Production,
		DeployRoot: c.Activation.DeployRoot,
	}
}
