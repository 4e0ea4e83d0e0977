package config

import (
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	HTTP struct {
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
		AllowOrigins    []string      `env:"CORS_ALLOW_ORIGINS" env-default:"*" env-separator:","`
	}
	Instagram struct {
		FetchTimeout time.Duration `env:"INSTAGRAM_FETCH_TIMEOUT" env-default:"15s"`
		MaxRedirects int           `env:"INSTAGRAM_MAX_REDIRECTS" env-default:"5"`
		UserAgent    string        `env:"INSTAGRAM_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	}
	Proxy struct {
		Timeout      time.Duration `env:"PROXY_TIMEOUT" env-default:"30s"`
		AllowedHosts []string      `env:"PROXY_ALLOWED_HOSTS" env-default:"instagram.com,cdninstagram.com,fbcdn.net" env-separator:","`
	}
	Telegram struct {
		Token string `env:"TELEGRAM_TOKEN"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// IsDevelopment reports whether the service runs with human-readable logs and gin debug mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev" || c.App.Env == "local"
}
