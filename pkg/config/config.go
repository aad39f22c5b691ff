package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Postgres Postgres
	Kafka    Kafka
	TiloPay  TiloPay
	Portal   Portal
	Mailer   Mailer
	Jobs     Jobs
}

type HTTP struct {
	Port            int    `env:"HTTP_PORT" envDefault:"8080"`
	APIKeyEnabled   bool   `env:"HTTP_API_KEY_ENABLED" envDefault:"false"`
	APIKey          string `env:"HTTP_API_KEY" envDefault:"dev"`
	LookupRateLimit int    `env:"HTTP_LOOKUP_RATE_LIMIT" envDefault:"30"` // requests per minute per IP
}

type Logger struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Postgres struct {
	DSN     string `env:"POSTGRES_DSN"`
	MaxConn int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
}

type Kafka struct {
	Brokers              []string `env:"KAFKA_BROKERS" envSeparator:","`
	PaymentSettledTopic  string   `env:"KAFKA_PAYMENT_SETTLED_TOPIC" envDefault:"payments.settled"`
	ManualPaymentsTopic  string   `env:"KAFKA_MANUAL_PAYMENTS_TOPIC" envDefault:"payments.manual"`
	ConsumerGroupID      string   `env:"KAFKA_CONSUMER_GROUP_ID" envDefault:"portal"`
	ManualConsumeEnabled bool     `env:"KAFKA_MANUAL_CONSUME_ENABLED" envDefault:"false"`
}

type TiloPay struct {
	BaseURL       string        `env:"TILOPAY_BASE_URL" envDefault:"https://app.tilopay.com/api/v1"`
	APIUser       string        `env:"TILOPAY_API_USER"`
	Password      string        `env:"TILOPAY_PASSWORD"`
	Key           string        `env:"TILOPAY_KEY"`
	Currency      string        `env:"TILOPAY_CURRENCY" envDefault:"USD"`
	Timeout       time.Duration `env:"TILOPAY_TIMEOUT" envDefault:"15s"`
	RetryAttempts int           `env:"TILOPAY_RETRY_ATTEMPTS" envDefault:"2"`
	Billing       BillingDefaults
}

// BillingDefaults fill the gateway's bill-to/ship-to fields the client record does not carry.
type BillingDefaults struct {
	Address   string `env:"TILOPAY_BILL_ADDRESS" envDefault:"Ciudad de Panamá"`
	City      string `env:"TILOPAY_BILL_CITY" envDefault:"Panamá"`
	State     string `env:"TILOPAY_BILL_STATE" envDefault:"PA-8"`
	ZipCode   string `env:"TILOPAY_BILL_ZIP" envDefault:"00000"`
	Country   string `env:"TILOPAY_BILL_COUNTRY" envDefault:"PA"`
	Telephone string `env:"TILOPAY_BILL_TELEPHONE" envDefault:"50788888888"`
	Email     string `env:"TILOPAY_BILL_EMAIL" envDefault:"soporte@diacor.com"`
	FirstName string `env:"TILOPAY_BILL_FIRST_NAME" envDefault:"Cliente"`
	LastName  string `env:"TILOPAY_BILL_LAST_NAME" envDefault:"Diacor"`
}

type Portal struct {
	BaseURL string `env:"PORTAL_BASE_URL" envDefault:"http://localhost:3001"`
}

type Mailer struct {
	Enabled  bool   `env:"MAILER_ENABLED" envDefault:"false"`
	Host     string `env:"MAILER_HOST" envDefault:"localhost"`
	Port     int    `env:"MAILER_PORT" envDefault:"587"`
	Login    string `env:"MAILER_LOGIN" envDefault:""`
	Password string `env:"MAILER_PASSWORD" envDefault:""`
	From     string `env:"MAILER_FROM" envDefault:"no-reply@diacor.com"`
	FromName string `env:"MAILER_FROM_NAME" envDefault:"Diacor GPS"`
}

type Jobs struct {
	StatusSyncEnabled  bool          `env:"JOBS_STATUS_SYNC_ENABLED" envDefault:"true"`
	StatusSyncInterval time.Duration `env:"JOBS_STATUS_SYNC_INTERVAL" envDefault:"1h"`
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAsWithOptions[Config](env.Options{
		RequiredIfNoDef: true,
	})
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
