package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	ViaCEP   ViaCEPConfig   `mapstructure:"viacep"`
	Intake   IntakeConfig   `mapstructure:"intake"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// GatewayConfig holds the calculation backend configuration
type GatewayConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ViaCEPConfig holds the public postal registry configuration
type ViaCEPConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IntakeConfig holds workflow tuning knobs
type IntakeConfig struct {
	RecalcDebounce time.Duration `mapstructure:"recalc_debounce"`
	ExportDir      string        `mapstructure:"export_dir"`
	UploadDir      string        `mapstructure:"upload_dir"`
}

// AudioConfig holds the login chime cue
type AudioConfig struct {
	CuePath      string        `mapstructure:"cue_path"`
	FadeDelay    time.Duration `mapstructure:"fade_delay"`
	FadeInterval time.Duration `mapstructure:"fade_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/intake.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("gateway.timeout", 30*time.Second)

	viper.SetDefault("viacep.base_url", "https://viacep.com.br")
	viper.SetDefault("viacep.timeout", 5*time.Second)

	viper.SetDefault("intake.recalc_debounce", 600*time.Millisecond)
	viper.SetDefault("intake.export_dir", "saida")
	viper.SetDefault("intake.upload_dir", "data/uploads")

	viper.SetDefault("audio.cue_path", "static/audio/avengers.mp3")
	viper.SetDefault("audio.fade_delay", 25*time.Second)
	viper.SetDefault("audio.fade_interval", 250*time.Millisecond)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("gateway.base_url", "GATEWAY_BASE_URL")
	viper.BindEnv("viacep.base_url", "VIACEP_BASE_URL")
	viper.BindEnv("database.path", "DATABASE_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Intake.RecalcDebounce <= 0 {
		return fmt.Errorf("intake.recalc_debounce must be positive")
	}
	return nil
}
