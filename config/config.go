package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidTimeouts = errors.New("invalid health timeouts")

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json or console

	PgURL     string `env:"PG_URL,required,notEmpty"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	RedisAddr      string `env:"REDIS_ADDR,required,notEmpty"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisProbeName string `env:"REDIS_PROBE_NAME" envDefault:"cache"`

	// Optional dependencies, probed only when configured.
	KafkaBrokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	OpensearchUrls []string `env:"OPENSEARCH_URLS" envSeparator:","`

	HealthProbeTimeout   time.Duration `env:"HEALTH_PROBE_TIMEOUT" envDefault:"2s"`
	HealthOverallTimeout time.Duration `env:"HEALTH_OVERALL_TIMEOUT" envDefault:"5s"`
	HealthDBVerifyQuery  bool          `env:"HEALTH_DB_VERIFY_QUERY" envDefault:"false"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks values the env tags cannot express.
func (c Config) Validate() error {
	if c.HealthProbeTimeout <= 0 || c.HealthOverallTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidTimeouts)
	}
	if c.HealthOverallTimeout < c.HealthProbeTimeout {
		return fmt.Errorf("%w: overall timeout %s is shorter than probe timeout %s",
			ErrInvalidTimeouts, c.HealthOverallTimeout, c.HealthProbeTimeout)
	}
	return nil
}
