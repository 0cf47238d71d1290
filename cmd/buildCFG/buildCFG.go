package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
	Env  string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	env := cfg.GetString("server.env")
	if env == "" {
		env = "development"
	}
	return ServerConfig{Port: port, Env: env}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	host := cfg.GetString("database.host")
	port := cfg.GetString("database.port")
	user := cfg.GetString("database.user")
	pass := cfg.GetString("database.password")
	name := cfg.GetString("database.name")
	sslmode := cfg.GetString("database.sslmode")

	if host == "" || user == "" || name == "" {
		return "", nil, nil, fmt.Errorf("database.host, database.user and database.name are required")
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	masterDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, pass, host, port, name, sslmode)

	maxOpen := cfg.GetInt("database.max_open_conns")
	if maxOpen == 0 {
		maxOpen = 10
	}
	maxIdle := cfg.GetInt("database.max_idle_conns")
	if maxIdle == 0 {
		maxIdle = 5
	}

	opts := &dbpg.Options{
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Hour,
	}

	log.Info().Msgf("DB config built for %s:%s/%s", host, port, name)
	return masterDSN, nil, opts, nil
}

func NotificationsEnabled(cfg *config.Config) bool {
	return cfg.GetBool("notifications.enabled")
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	url := cfg.GetString("rabbitmq.url")
	if url == "" {
		return RabbitConfig{}, fmt.Errorf("rabbitmq.url is required when notifications are enabled")
	}
	exchange := cfg.GetString("rabbitmq.exchange")
	if exchange == "" {
		exchange = "registrations"
	}
	queue := cfg.GetString("rabbitmq.queue")
	if queue == "" {
		queue = "registration.notifications"
	}
	return RabbitConfig{Url: url, Exchange: exchange, Queue: queue}, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) (SMTPConfig, error) {
	host := cfg.GetString("smtp.host")
	from := cfg.GetString("smtp.from")
	if host == "" || from == "" {
		return SMTPConfig{}, fmt.Errorf("smtp.host and smtp.from are required when notifications are enabled")
	}
	port := cfg.GetString("smtp.port")
	if port == "" {
		port = "587"
	}
	return SMTPConfig{
		Host:     host,
		Port:     port,
		From:     from,
		Password: cfg.GetString("smtp.password"),
	}, nil
}
