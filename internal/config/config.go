package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Session  *SessionConfig  `mapstructure:"session"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "postgres" or "sqlite"
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	URL      string `mapstructure:"url"`
	Path     string `mapstructure:"path"` // sqlite file
}

type SessionConfig struct {
	CookieName   string `mapstructure:"cookie_name"`
	PrefsName    string `mapstructure:"prefs_name"`
	PrefsKey     string `mapstructure:"prefs_key"`
	CSRFKey      string `mapstructure:"csrf_key"`
	CookieDomain string `mapstructure:"cookie_domain"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *AppConfig) Validate() error {
	if c.API == nil || c.Gin == nil || c.Database == nil || c.Session == nil {
		return fmt.Errorf("config is missing one of api, gin, database or session sections")
	}

	err := validation.ValidateStruct(c.API,
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.JWTSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.API.TokenTTL, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("api -> %w", err)
	}

	err = validation.ValidateStruct(c.Database,
		validation.Field(&c.Database.Driver, validation.Required, validation.In("postgres", "sqlite")),
	)
	if err != nil {
		return fmt.Errorf("database -> %w", err)
	}

	err = validation.ValidateStruct(c.Session,
		validation.Field(&c.Session.CookieName, validation.Required),
		validation.Field(&c.Session.PrefsName, validation.Required),
		validation.Field(&c.Session.PrefsKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.Session.CSRFKey, validation.Required, validation.Length(32, 32)),
	)
	if err != nil {
		return fmt.Errorf("session -> %w", err)
	}

	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	// Hosting platforms hand the database over as a single URL.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" && conf.Database != nil {
		conf.Database.URL = dbURL
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

// Watch reloads the file on change and hands the new config to fn. Invalid edits are logged and skipped.
func Watch(path string, fn func(*AppConfig)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		zap.L().Warn("config watch disabled", zap.String("path", path), zap.Error(err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			zap.L().Error("ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		zap.L().Info("config changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		fn(conf)
	})
	v.WatchConfig()
}
