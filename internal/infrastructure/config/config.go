package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	TLS           bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// RedisConfig enables the distributed per-user lock when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
	LockWait time.Duration
}

type AuthConfig struct {
	Issuer        string
	Secret        string
	PublicKeyPEM  string
	PublicKeyFile string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

type LogConfig struct {
	Level  string
	Format string
}

// ProductConfig holds product defaults. They are not regulatory and are
// kept apart from the policy catalog.
type ProductConfig struct {
	MedianAnnualIncome int64
	DefaultAge         int
	QuickNominalRate   decimal.Decimal
	QuickMaturityYears int
	ExpUnitAmount      int64
	ExpPerUnit         int64
	ExpMaxPerEvent     int64
}

type Config struct {
	GRPCPort      int
	HTTPPort      int
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Redis         RedisConfig
	Auth          AuthConfig
	TLS           TLSConfig
	Log           LogConfig
	Product       ProductConfig
	PolicyVersion string
	OTLPEndpoint  string
	Reflection    bool
	ServiceName   string
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9095),
		HTTPPort: getEnvInt("HTTP_PORT", 8095),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "jipjung"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "jipjung_affordability"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:         getEnv("KAFKA_TOPIC", "affordability-events"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			LockTTL:  getEnvDuration("USER_LOCK_TTL", 10*time.Second),
			LockWait: getEnvDuration("USER_LOCK_WAIT", 5*time.Second),
		},
		Auth: AuthConfig{
			Issuer:        getEnv("JWT_ISSUER", "jipjung-gateway"),
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyPEM:  getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
			CAFile:   getEnv("TLS_CA_FILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Product: ProductConfig{
			MedianAnnualIncome: getEnvInt64("DSR_MEDIAN_ANNUAL_INCOME", 58_440_000),
			DefaultAge:         getEnvInt("DSR_DEFAULT_AGE", 35),
			QuickNominalRate:   getEnvDecimal("DSR_QUICK_NOMINAL_RATE", decimal.RequireFromString("4.5")),
			QuickMaturityYears: getEnvInt("DSR_QUICK_MATURITY_YEARS", 30),
			ExpUnitAmount:      getEnvInt64("EXP_UNIT_AMOUNT", 10_000_000),
			ExpPerUnit:         getEnvInt64("EXP_PER_UNIT", 10),
			ExpMaxPerEvent:     getEnvInt64("EXP_MAX_PER_EVENT", 500),
		},
		PolicyVersion: getEnv("DSR_POLICY_VERSION", "2025H2"),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Reflection:    getEnvBool("GRPC_REFLECTION", false),
		ServiceName:   "affordability-service",
	}
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyPEM == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required"))
	}
	p := c.Product
	if p.MedianAnnualIncome <= 0 {
		errs = append(errs, errors.New("DSR_MEDIAN_ANNUAL_INCOME must be positive"))
	}
	if p.DefaultAge <= 0 {
		errs = append(errs, errors.New("DSR_DEFAULT_AGE must be positive"))
	}
	if p.QuickNominalRate.IsNegative() {
		errs = append(errs, errors.New("DSR_QUICK_NOMINAL_RATE must not be negative"))
	}
	if p.QuickMaturityYears < 1 {
		errs = append(errs, errors.New("DSR_QUICK_MATURITY_YEARS must be at least 1"))
	}
	if p.ExpUnitAmount <= 0 {
		errs = append(errs, errors.New("EXP_UNIT_AMOUNT must be positive"))
	}
	if p.ExpPerUnit < 0 || p.ExpMaxPerEvent < 0 {
		errs = append(errs, errors.New("EXP_PER_UNIT and EXP_MAX_PER_EVENT must not be negative"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		errs = append(errs, errors.New("USER_LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
