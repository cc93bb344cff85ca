package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Bootstrap     BootstrapConfig     `mapstructure:"bootstrap"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// JWTConfig holds the two signing domains. Access and refresh secrets must
// never be the same value: a shared secret would let a refresh token verify
// under the access decoder.
type JWTConfig struct {
	AccessSecret      string `mapstructure:"access_secret"`
	RefreshSecret     string `mapstructure:"refresh_secret"`
	AccessTTLMinutes  int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLMinutes int    `mapstructure:"refresh_ttl_minutes"`
	Issuer            string `mapstructure:"issuer"`
	BCryptCost        int    `mapstructure:"bcrypt_cost"`
}

// BootstrapConfig optionally seeds an initial administrator account.
type BootstrapConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminFullName string `mapstructure:"admin_full_name"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultAccessTTLMinutes  = 15
	DefaultRefreshTTLMinutes = 10080 // 7 days
	DefaultIssuer            = "iam-service"
)

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.JWT.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("jwt config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *JWTConfig) Validate() error {
	if len(c.AccessSecret) < 32 {
		return errors.New("access_secret must be at least 32 characters")
	}
	if len(c.RefreshSecret) < 32 {
		return errors.New("refresh_secret must be at least 32 characters")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("access_secret and refresh_secret must differ")
	}
	if c.AccessTTLMinutes < 1 {
		return errors.New("access_ttl_minutes must be at least 1")
	}
	if c.RefreshTTLMinutes < 1 {
		return errors.New("refresh_ttl_minutes must be at least 1")
	}
	if c.Issuer == "" {
		return errors.New("issuer is required")
	}
	return nil
}

func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLMinutes) * time.Minute
}

// IsConfigured reports whether a bootstrap admin should be seeded.
func (c *BootstrapConfig) IsConfigured() bool {
	return strings.TrimSpace(c.AdminEmail) != "" && c.AdminPassword != ""
}
