package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Broker     BrokerConfig     `yaml:"broker"`
	Mail       MailConfig       `yaml:"mail"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Link       LinkConfig       `yaml:"link"`
	Crypto     CryptoConfig     `yaml:"crypto"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Ops        OpsConfig        `yaml:"ops"`
	Log        LogConfig        `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:"./migrations"`
}

// BrokerConfig holds RabbitMQ connection and queue settings.
type BrokerConfig struct {
	URL          string `yaml:"url"           env:"BROKER_URL"           env-required:"true"`
	UpdatesQueue string `yaml:"updates_queue" env:"BROKER_UPDATES_QUEUE" env-default:"text_message_update"`
	AnswersQueue string `yaml:"answers_queue" env:"BROKER_ANSWERS_QUEUE" env-default:"answer_message"`
	Prefetch     int    `yaml:"prefetch"      env:"BROKER_PREFETCH"      env-default:"16"`
}

// MailConfig holds the mail-dispatch microservice endpoint settings.
type MailConfig struct {
	ServiceURI string        `yaml:"service_uri" env:"MAIL_SERVICE_URI" env-required:"true"`
	Timeout    time.Duration `yaml:"timeout"     env:"MAIL_TIMEOUT"     env-default:"10s"`
}

// TelegramConfig holds the platform file-API settings used to fetch
// uploaded file bytes.
type TelegramConfig struct {
	APIBase  string        `yaml:"api_base"  env:"TELEGRAM_API_BASE"  env-default:"https://api.telegram.org"`
	BotToken string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	Timeout  time.Duration `yaml:"timeout"   env:"TELEGRAM_TIMEOUT"   env-default:"30s"`
}

// LinkConfig holds retrieval-link construction settings.
type LinkConfig struct {
	BaseURL string `yaml:"base_url" env:"LINK_BASE_URL" env-required:"true"`
}

// CryptoConfig holds the secret used to derive verification tokens.
type CryptoConfig struct {
	TokenSecret string `yaml:"token_secret" env:"CRYPTO_TOKEN_SECRET" env-required:"true"`
}

// DispatcherConfig holds inbound processing settings.
type DispatcherConfig struct {
	Workers int `yaml:"workers" env:"DISPATCHER_WORKERS" env-default:"8"`
}

// OpsConfig holds the internal HTTP server settings (health endpoints).
type OpsConfig struct {
	Host            string        `yaml:"host"             env:"OPS_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"OPS_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"OPS_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"OPS_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"OPS_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
