package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// NotificationTTL is the fixed lifetime of a notification from creation.
const NotificationTTL = 30 * 24 * time.Hour

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig

	// CascadeConcurrency bounds the parallel writes of the student-block cascade.
	CascadeConcurrency int
	// NotificationTemplatesFile overrides the embedded template catalogue when set.
	NotificationTemplatesFile string
	// StorageTimeout bounds each request's storage round trips.
	StorageTimeout time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UnreadTTL    time.Duration
}

type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	Partitions        int32
	ReplicationFactor int16
}

type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// FromEnv builds the Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Server {
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtKey == "" {
		// development default, must be overridden outside local runs
		jwtKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:        envOr("PLACEMENT_ADDR", ":8080"),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			UnreadTTL:    envDuration("REDIS_UNREAD_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			NotificationTopic: envOr("NOTIFICATION_TOPIC", "placement.notifications"),
			Partitions:        int32(envInt("NOTIFICATION_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(envInt("NOTIFICATION_TOPIC_REPLICATION", 1)),
		},
		Auth: AuthConfig{
			JWTSigningKey: jwtKey,
			JWTIssuer:     envOr("JWT_ISSUER", "placement-portal"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloat("RATE_LIMIT_RPS", 10),
			Burst:             envInt("RATE_LIMIT_BURST", 20),
		},
		CascadeConcurrency:        envInt("CASCADE_CONCURRENCY", 4),
		NotificationTemplatesFile: os.Getenv("NOTIFICATION_TEMPLATES_FILE"),
		StorageTimeout:            envDuration("STORAGE_TIMEOUT", 10*time.Second),
	}
}

// IsProduction reports whether the process runs in production.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
