package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"farmmarket/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port  string
	DB    DB
	JWT   JWT
	Redis Redis
	Kafka Kafka
}

type DB struct {
	database.Config
}

type JWT struct {
	Issuer    string
	AccessExp time.Duration
	Secret    string
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		JWT: JWT{
			Issuer:    getEnv("JWT_ISSUER", log),
			AccessExp: parseDurationWithDays(getEnv("ACCESS_EXP", log)),
			Secret:    getEnv("JWT_SECRET", log),
		},
		Redis: Redis{
			Enabled: os.Getenv("REDIS_ENABLED") == "true",
		},
		Kafka: Kafka{
			Enabled: os.Getenv("KAFKA_ENABLED") == "true",
		},
	}

	if cfg.Redis.Enabled {
		cfg.Redis.Addr = getEnv("REDIS_ADDR", log)
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
		cfg.Redis.DB = atoiDefault(os.Getenv("REDIS_DB"), 0)
		cfg.Redis.TTLSeconds = atoiDefault(os.Getenv("CACHE_TTL_SECONDS"), 60)
	}

	if cfg.Kafka.Enabled {
		cfg.Kafka.Brokers = splitAndTrim(getEnv("KAFKA_BROKERS", log))
		cfg.Kafka.Topic = getEnv("KAFKA_TOPIC_ORDERS", log)
	}

	return cfg
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := time.ParseDuration(daysStr + "h")
		if err != nil {
			return 0
		}
		return time.Duration(24) * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
