package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Http            *HTTPConfig
	Grpc            *GRPCConfig
	Db              *PGDBCfg
	Redis           *RedisCfg
	Kafka           *KafkaCfg
	Log             *LogCfg
	ShutdownTimeout time.Duration
}

type HTTPConfig struct {
	Port               string        `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout        time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout       time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout        time.Duration `envconfig:"KEEP_ALIVE" default:"60s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type GRPCConfig struct {
	Port           string        `envconfig:"GRPC_PORT" default:"8091"`
	NetworkMode    string        `envconfig:"GRPC_NETWORK_MODE" default:"tcp"`
	HealthInterval time.Duration `envconfig:"GRPC_HEALTH_INTERVAL" default:"10s"`
}

type PGDBCfg struct {
	Host              string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port              string `envconfig:"POSTGRES_PORT" default:"5432"`
	User              string `envconfig:"POSTGRES_USER" required:"true"`
	Password          string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName            string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode           string `envconfig:"SSL_MODE" default:"disable"`
	MaxConns          int32  `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	MigrationsEnabled bool   `envconfig:"MIGRATIONS_ENABLED" default:"true"`
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisCfg struct {
	Addr           string        `envconfig:"REDIS_ADDR"`
	Password       string        `envconfig:"REDIS_PASSWORD"`
	User           string        `envconfig:"REDIS_USER"`
	DB             int           `envconfig:"REDIS_DB_ID" default:"0"`
	MaxRetries     int           `envconfig:"MAX_RETRIES" default:"3"`
	DialTimeout    time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	Timeout        time.Duration `envconfig:"REDIS_TIMEOUT" default:"3s"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled сообщает, настроен ли Redis. Без него идемпотентность POST-запросов отключена.
func (c *RedisCfg) Enabled() bool {
	return c.Addr != ""
}

type KafkaCfg struct {
	Brokers           []string `envconfig:"KAFKA_BROKERS"`
	Topic             string   `envconfig:"KAFKA_TOPIC" default:"catalog.events"`
	NetworkMode       string   `envconfig:"KAFKA_NETWORK_MODE" default:"tcp"`
	Partitions        int      `envconfig:"KAFKA_PARTITIONS" default:"3"`
	ReplicationFactor int      `envconfig:"REPLICATION_FACTOR" default:"1"`
	BatchLimit        int      `envconfig:"OUTBOX_BATCH_LIMIT" default:"10"`
}

// Enabled сообщает, нужно ли публиковать события каталога.
func (c *KafkaCfg) Enabled() bool {
	return len(c.Brokers) > 0
}

type LogCfg struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type appCfg struct {
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Перед чтением окружения подгружается .env, если он есть.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("failed to load .env file, continuing with environment: %v", err)
		}
	} else {
		log.Infof("loaded configuration from .env file")
	}

	var (
		httpCfg  HTTPConfig
		grpcCfg  GRPCConfig
		dbCfg    PGDBCfg
		redisCfg RedisCfg
		kafkaCfg KafkaCfg
		logCfg   LogCfg
		app      appCfg
	)

	for _, spec := range []any{&httpCfg, &grpcCfg, &dbCfg, &redisCfg, &kafkaCfg, &logCfg, &app} {
		if err := envconfig.Process("", spec); err != nil {
			log.Errorf(err, "invalid configuration")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if kafkaCfg.Enabled() && kafkaCfg.Topic == "" {
		return nil, e.Wrap("KAFKA_TOPIC", e.ErrIncorrectEnvVariable)
	}

	return &Config{
		Http:            &httpCfg,
		Grpc:            &grpcCfg,
		Db:              &dbCfg,
		Redis:           &redisCfg,
		Kafka:           &kafkaCfg,
		Log:             &logCfg,
		ShutdownTimeout: app.ShutdownTimeout,
	}, nil
}
