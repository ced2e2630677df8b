package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "CHECKOUT_CONFIG_PATH"

type CheckoutConfig struct {
	Env          string `yaml:"env" env:"CHECKOUT_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	CheckoutDB   `yaml:"checkout_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	PushInPay    `yaml:"pushinpay"`
	Utmify       `yaml:"utmify"`
	Tracking     `yaml:"tracking"`
	Background   `yaml:"background"`
	Audit        `yaml:"audit"`
	Platform     `yaml:"platform"`
	Products     `yaml:"products"`
	Migrations   `yaml:"migrations"`
}

type HTTPServer struct {
	Host          string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port          string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout   time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout  time.Duration `yaml:"write_timeout" env-default:"30s"`
	AdminToken    string        `yaml:"admin_token" env:"CHECKOUT_ADMIN_TOKEN"`
	// WebhookSecret, when set, must arrive in X-Webhook-Token on gateway pushes.
	WebhookSecret string        `yaml:"webhook_secret" env:"PIX_WEBHOOK_SECRET"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type CheckoutDB struct {
	// Driver is "postgres" or "memory".
	Driver          string        `yaml:"driver" env:"CHECKOUT_DB_DRIVER" env-default:"postgres"`
	Dsn             string        `yaml:"dsn" env:"CHECKOUT_DB_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate" env-default:"false"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Enabled      bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host         string `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	EventsTopic  string `yaml:"events_topic" env-default:"checkout-events"`
	WebhookTopic string `yaml:"webhook_topic" env-default:"pix-webhooks"`
	GroupID      string `yaml:"group_id" env-default:"checkout-service"`
}

type PushInPay struct {
	BaseURL string        `yaml:"base_url" env:"PUSHINPAY_BASE_URL" env-default:"https://api.pushinpay.com.br"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

type Utmify struct {
	BaseURL string        `yaml:"base_url" env:"UTMIFY_BASE_URL" env-default:"https://api.utmify.com.br"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Tracking struct {
	Platform  string `yaml:"platform" env-default:"Checkout"`
	Workers   int    `yaml:"workers" env-default:"4"`
	QueueSize int    `yaml:"queue_size" env-default:"1000"`
}

type Background struct {
	SweepSchedule string        `yaml:"sweep_schedule" env-default:"@every 1m"`
	MinAge        time.Duration `yaml:"min_age" env-default:"2m"`
	BatchSize     int           `yaml:"batch_size" env-default:"100"`
}

type Audit struct {
	Capacity int `yaml:"capacity" env-default:"500"`
}

// Platform holds the commission defaults seeded when no platform settings exist.
type Platform struct {
	CommissionPercentage float64 `yaml:"commission_percentage" env-default:"0"`
	FixedFeeInCents      int64   `yaml:"fixed_fee_in_cents" env-default:"0"`
	GatewayAccountID     string  `yaml:"gateway_account_id" env:"PLATFORM_GATEWAY_ACCOUNT_ID"`
}

type Products struct {
	SlugAlphabet    string `yaml:"slug_alphabet"`
	SlugLength      int    `yaml:"slug_length" env-default:"8"`
	SlugMaxAttempts int    `yaml:"slug_max_attempts" env-default:"10"`
}

type Migrations struct {
	Path string `yaml:"path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

func (c HTTPServer) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c GRPCServer) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c KafkaService) Brokers() []string {
	return []string{fmt.Sprintf("%s:%s", c.Host, c.Port)}
}

// Load reads the YAML file at path, with environment variables taking precedence.
func Load(path string) (*CheckoutConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CheckoutConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *CheckoutConfig {

	// Processing env config variable and file
	configPath := os.Getenv(configPathEnv)

	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg
}
