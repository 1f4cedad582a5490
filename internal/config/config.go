package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	envPrefix = "VOTING"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	LoginAttempts      int           `mapstructure:"login_attempts_per_minute"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

func (c *APIConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	// URL overrides every other field when set. It is read from DATABASE_URL.
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DB              string        `mapstructure:"db"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c *PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

// Load reads the YAML file at path. Every key can be overridden by an
// environment variable such as VOTING_API_PORT.
func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.BindEnv("postgres.url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("viper.BindEnv -> %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

func setDefaults() {
	viper.SetDefault("api.environment", EnvDevelopment)
	viper.SetDefault("api.port", "8080")
	viper.SetDefault("api.jwt_ttl", time.Hour)
	viper.SetDefault("api.login_attempts_per_minute", 20)
	viper.SetDefault("api.read_timeout", 10*time.Second)
	viper.SetDefault("api.write_timeout", 15*time.Second)
	viper.SetDefault("api.idle_timeout", 60*time.Second)
	viper.SetDefault("api.shutdown_timeout", 10*time.Second)
	viper.SetDefault("gin.mode", "debug")
	viper.SetDefault("postgres.ssl_mode", "disable")
	viper.SetDefault("postgres.max_open_conns", 25)
	viper.SetDefault("postgres.max_idle_conns", 5)
	viper.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)
}

// Watch calls onChange each time the config file is written. Values already
// passed to running components are not reloaded.
func Watch(onChange func(e fsnotify.Event)) {
	viper.OnConfigChange(onChange)
	viper.WatchConfig()
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.API, validation.Required),
		validation.Field(&c.Gin, validation.Required),
		validation.Field(&c.Postgres, validation.Required),
	)
}

func (c *APIConfig) Validate() error {
	keyRules := []validation.Rule{validation.Required}
	if c.IsProduction() {
		keyRules = append(keyRules, validation.Length(32, 0))
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.Required, validation.In(EnvDevelopment, EnvTest, EnvProduction)),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.AllowedCORSDomains, validation.Required),
		validation.Field(&c.JWTSigningKey, keyRules...),
		validation.Field(&c.JWTTTL, validation.Required),
		validation.Field(&c.LoginAttempts, validation.Min(1)),
	)
}

func (c *GinConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In("debug", "release", "test")),
	)
}

func (c *PostgresConfig) Validate() error {
	if c.URL != "" {
		return nil
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.User, validation.Required),
		validation.Field(&c.DB, validation.Required),
	)
}
