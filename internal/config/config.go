package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"PORT" env-default:"4000"`
	WebSocket  WebSocket `yaml:"websocket"`
	Redis      Redis     `yaml:"redis"`
}

type WebSocket struct {
	ReadLimit  int64         `yaml:"read-limit" env-default:"4096"`
	WriteWait  time.Duration `yaml:"write-wait" env-default:"10s"`
	PongWait   time.Duration `yaml:"pong-wait" env-default:"60s"`
	SendBuffer int           `yaml:"send-buffer" env-default:"64"`
}

// PingPeriod must stay below PongWait so the peer answers before the read deadline.
func (that WebSocket) PingPeriod() time.Duration {
	return that.PongWait * 9 / 10
}

type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env-default:"24h"`
	QueueSize   int           `yaml:"queue-size" env-default:"256"`
}

// Load reads the config file at path, with environment variables taking precedence.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
