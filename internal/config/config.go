package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	Telegram         TelegramConfig          `env:",prefix=TELEGRAM_"`
	API              APIConfig               `env:",prefix=VPN_API_"`
	Watchdog         WatchdogConfig          `env:",prefix=WATCHDOG_"`
}

type TelegramConfig struct {
	BotToken string `env:"BOT_TOKEN,required"`
	// Telegram IDs of operators allowed to drive the bot.
	OperatorIDs []int64       `env:"OPERATOR_IDS,required"`
	Timeout     time.Duration `env:"TIMEOUT,default=30s"`
}

type APIConfig struct {
	Scheme   string        `env:"SCHEME,default=http"`
	Host     string        `env:"HOST,default=127.0.0.1"`
	Port     uint16        `env:"PORT,default=8080"`
	BasePath string        `env:"BASE_PATH,default=/api/v1"`
	Username string        `env:"USERNAME,required"`
	Password string        `env:"PASSWORD,required"`
	Timeout  time.Duration `env:"TIMEOUT,default=30s"`

	RateLimit struct {
		Burst int     `env:"BURST,default=1"`
		RPS   float64 `env:"RPS,default=20.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

func (c APIConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d%s", c.Scheme, c.Host, c.Port, c.BasePath)
}

type WatchdogConfig struct {
	Enabled bool `env:"ENABLED,default=true"`
	// Schedule uses the robfig/cron spec format.
	Schedule string `env:"SCHEDULE,default=@every 1m"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}
