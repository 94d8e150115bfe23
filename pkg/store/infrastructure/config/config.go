package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config is read from STOREFRONT_* variables. API_KEY is read unprefixed.
type Config struct {
	ListenAddress string `envconfig:"LISTEN_ADDRESS" default:":8080"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"file"`
	DataDir       string `envconfig:"DATA_DIR" default:"data"`
	MySQLDSN      string `envconfig:"MYSQL_DSN"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"storefront.events"`

	PaymentDelay      time.Duration `envconfig:"PAYMENT_DELAY" default:"2500ms"`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"30s"`
	ImageModel        string        `envconfig:"IMAGE_MODEL" default:"gemini-2.5-flash-image"`

	APIKey string `ignored:"true"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("storefront", &c); err != nil {
		return Config{}, errors.Wrap(err, "read configuration")
	}

	var secrets struct {
		APIKey string `envconfig:"API_KEY"`
	}
	if err := envconfig.Process("", &secrets); err != nil {
		return Config{}, errors.Wrap(err, "read api key")
	}
	c.APIKey = secrets.APIKey

	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverFile:
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("STOREFRONT_MYSQL_DSN is required for the mysql driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("STOREFRONT_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	return nil
}
