package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pocketbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocketbook"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
		// MaxUploadBytes caps statement uploads.
		MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET" required:"true"`
		Issuer   string        `envconfig:"JWT_ISSUER" default:"pocketbook"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}

	AMQP struct {
		// Drift alerts only go to the log when URL is empty.
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"pocketbook"`
		Queue    string `envconfig:"AMQP_DRIFT_QUEUE" default:"wallet-drift"`
	}

	Reconcile struct {
		Enabled     bool          `envconfig:"RECONCILE_ENABLED" default:"true"`
		Interval    time.Duration `envconfig:"RECONCILE_INTERVAL" default:"1h"`
		Concurrency int           `envconfig:"RECONCILE_CONCURRENCY" default:"4"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
