package config

import (
	"time"

	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/internal/external/merchantwarrior"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MerchantUUID  string `env:"MW_MERCHANT_UUID,required,notEmpty"`
	APIKey        string `env:"MW_API_KEY,required,notEmpty"`
	APIPassphrase string `env:"MW_API_PASSPHRASE,required,notEmpty"`
	Sandbox       bool   `env:"MW_SANDBOX" envDefault:"true"`

	// Optional overrides of the token and post base URLs, e.g. for a local stub.
	TokenURL string `env:"MW_TOKEN_URL"`
	PostURL  string `env:"MW_POST_URL"`

	HTTPTimeout    time.Duration `env:"MW_HTTP_TIMEOUT" envDefault:"30s"`
	LogTranscripts bool          `env:"MW_LOG_TRANSCRIPTS" envDefault:"false"`

	// Outcome events are published only when brokers are set.
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOutcomesTopic string   `env:"KAFKA_OUTCOMES_TOPIC" envDefault:"payments.outcomes"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Credentials() gateway.Credentials {
	return gateway.Credentials{
		MerchantUUID:  c.MerchantUUID,
		APIKey:        c.APIKey,
		APIPassphrase: c.APIPassphrase,
		Sandbox:       c.Sandbox,
	}
}

// Endpoints returns the effective gateway base URLs.
func (c Config) Endpoints() merchantwarrior.Endpoints {
	e := merchantwarrior.DefaultEndpoints(c.Sandbox)
	if c.TokenURL != "" {
		e.Token = c.TokenURL
	}
	if c.PostURL != "" {
		e.Post = c.PostURL
	}
	return e
}

// Console reports whether logs should be human-readable text.
func (c Config) Console() bool {
	return c.LogFormat == "console"
}
