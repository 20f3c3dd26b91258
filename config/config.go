package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Member is one entry of the member directory used by the static identity provider.
type Member struct {
	Email     string `mapstructure:"email"`
	Passcode  string `mapstructure:"passcode"` // Literal passcode, or the name of an env var when prefixed with "env:"
	Nickname  string `mapstructure:"nickname"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	PhotoURL  string `mapstructure:"photo_url"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"` // gin mode: debug, release or test

		// Origins allowed to make credentialed cross-origin requests. "*" allows
		// anonymous reads from any origin. Empty means same-origin only.
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`
	Database struct {
		DSN string `mapstructure:"dsn"` // "memory" or a file path for SQLite
	} `mapstructure:"database"`
	Content struct {
		Backend      string        `mapstructure:"backend"`       // "gorm" or "memory"
		SeedFile     string        `mapstructure:"seed_file"`     // Optional YAML fixtures loaded at start-up
		FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // Upper bound on a single page load
		RenderWait   time.Duration `mapstructure:"render_wait"`   // How long a page waits before answering "loading"
	} `mapstructure:"content"`
	Session struct {
		CookieName   string        `mapstructure:"cookie_name"`
		NoticeCookie string        `mapstructure:"notice_cookie"`
		MaxAge       time.Duration `mapstructure:"max_age"`
		Secure       bool          `mapstructure:"secure"`
	} `mapstructure:"session"`
	Logging struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"logging"`
	Members []Member `mapstructure:"members"`
}

// AppConfig is the global configuration instance.
var AppConfig Config

const envPrefix = "DP"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("database.dsn", "memory")
	v.SetDefault("content.backend", "gorm")
	v.SetDefault("content.seed_file", "")
	v.SetDefault("content.fetch_timeout", "10s")
	v.SetDefault("content.render_wait", "5s")
	v.SetDefault("session.cookie_name", "dp_session")
	v.SetDefault("session.notice_cookie", "dp_notice")
	v.SetDefault("session.max_age", "24h")
	v.SetDefault("session.secure", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// LoadConfig reads configuration from a YAML file and DP_-prefixed environment
// variables (DP_SERVER_PORT, DP_DATABASE_DSN, ...) and stores it in AppConfig.
// When file is empty, config.yaml is searched for in ./config, . and ../config;
// a missing file is not an error.
func LoadConfig(file string) (*Config, error) {
	log := zap.L().Named("Config")
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("../config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading configuration file: %w", err)
		}
		log.Warn("Configuration file not found, using environment variables and defaults")
	} else {
		log.Info("Loaded configuration file", zap.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolveSecrets()

	AppConfig = cfg
	log.Info("Configuration loading complete",
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Content.Backend),
		zap.Int("members", len(cfg.Members)))
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Content.Backend {
	case "gorm", "memory":
	default:
		return fmt.Errorf("content.backend must be \"gorm\" or \"memory\", got %q", c.Content.Backend)
	}
	if c.Content.FetchTimeout <= 0 {
		return errors.New("content.fetch_timeout must be positive")
	}
	if c.Content.RenderWait <= 0 {
		return errors.New("content.render_wait must be positive")
	}
	if c.Session.CookieName == "" || c.Session.NoticeCookie == "" {
		return errors.New("session.cookie_name and session.notice_cookie are required")
	}
	seen := make(map[string]bool, len(c.Members))
	for i, m := range c.Members {
		email := strings.ToLower(strings.TrimSpace(m.Email))
		if email == "" || m.Passcode == "" {
			return fmt.Errorf("members[%d]: email and passcode are required", i)
		}
		if seen[email] {
			return fmt.Errorf("members[%d]: duplicate email %q", i, m.Email)
		}
		seen[email] = true
	}
	return nil
}

// resolveSecrets replaces "env:NAME" passcodes with the value of $NAME, so
// passcodes do not have to live in config.yaml.
func (c *Config) resolveSecrets() {
	log := zap.L().Named("Config")
	for i := range c.Members {
		name, ok := strings.CutPrefix(c.Members[i].Passcode, "env:")
		if !ok {
			continue
		}
		value := lookupEnv(name)
		if value == "" {
			log.Warn("Member passcode env var is not set, member cannot sign in",
				zap.String("email", c.Members[i].Email), zap.String("env", name))
		}
		c.Members[i].Passcode = value
	}
}

var lookupEnv = os.Getenv
