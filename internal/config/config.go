package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Madrid"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	// Бэкенд Blood4Life: хранилище записей и справочник госпиталей/кампаний
	Blood4Life struct {
		URL string `env:"BLOOD4LIFE_URL"`
		// Бэкенд авторизует по сессионной куке, токены в заголовках не принимает
		SessionCookieName  string `env:"BLOOD4LIFE_SESSION_COOKIE_NAME" envDefault:"JSESSIONID"`
		SessionCookieValue string `env:"BLOOD4LIFE_SESSION_COOKIE_VALUE"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"appointment_scheduler:appointment_scheduler"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled          bool   `env:"RABBITMQ_ENABLED"`
		URL              string `env:"RABBITMQ_URL"`
		AppointmentQueue string `env:"RABBITMQ_APPOINTMENT_QUEUE" envDefault:"blood4life.appointment-scheduler.appointment"`
	}

	WebSocket struct {
		Enabled bool   `env:"WEBSOCKET_ENABLED"`
		URL     string `env:"WEBSOCKET_URL"`
		// Получатель уведомлений для подписки, тот же субъект,
		// что и сессионная кука бэкенда
		RecipientType string `env:"WEBSOCKET_RECIPIENT_TYPE" envDefault:"donor"`
		RecipientID   int64  `env:"WEBSOCKET_RECIPIENT_ID"`
	}

	Cache struct {
		Enabled          bool `env:"CACHE_ENABLED"`
		AppointmentsSize int  `env:"CACHE_APPOINTMENTS_SIZE" envDefault:"1000"`
		HospitalsTTLMin  int  `env:"CACHE_HOSPITALS_TTL_MINUTES" envDefault:"30"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Разбор пар клиент:пароль для basic auth
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Без RabbitMQ кэш списков не инвалидируется, поэтому выключаем его тоже
	if !cfg.RabbitMQ.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
