package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	WSAddress      string   `mapstructure:"ws_address"`
	RPCAddress     string   `mapstructure:"rpc_address"`
	MonitorAddress string   `mapstructure:"monitor_address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GameConfig struct {
	// RoundSeconds is the drawing-round duration started on word selection.
	RoundSeconds int `mapstructure:"round_seconds"`
	// TurnPolicy selects the drawer rotation: "round_robin" or "random".
	TurnPolicy string `mapstructure:"turn_policy"`
}

type DatabaseConfig struct {
	// Enabled turns on round-history recording. The engine runs fully
	// in-memory either way.
	Enabled  bool           `mapstructure:"enabled"`
	Driver   string         `mapstructure:"driver"` // "gorm" or "postgres"
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoadConfig reads config.yaml from path, overlaying environment variables.
// A missing file is not an error: every key has a default, so the server can
// run without any configuration at all.
func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.ws_address", ":3001")
	viper.SetDefault("server.rpc_address", ":50051")
	viper.SetDefault("server.monitor_address", ":2112")
	viper.SetDefault("server.allowed_origins", []string{"*"})
	viper.SetDefault("game.round_seconds", 60)
	viper.SetDefault("game.turn_policy", "round_robin")
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.driver", "gorm")
	viper.SetDefault("database.postgres.host", "localhost")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.user", "postgres")
	viper.SetDefault("database.postgres.dbname", "guessdraw")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
