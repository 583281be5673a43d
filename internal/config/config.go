package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/pkg/lib/logger/zaplogger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type ServiceConfig struct {
	Address          string           `mapstructure:"address"`
	Version          string           `mapstructure:"version"`
	LogLevel         string           `mapstructure:"log_level"`
	Storage          StorageConfig    `mapstructure:"storage"`
	DbConfig         DBConfig         `mapstructure:"database"`
	RedisConfig      RedisConfig      `mapstructure:"redis"`
	NATSConfig       NATSConfig       `mapstructure:"nats"`
	ProcessingConfig ProcessingConfig `mapstructure:"processing"`
	UploadConfig     UploadConfig     `mapstructure:"upload"`
	RetentionConfig  RetentionConfig  `mapstructure:"retention"`
	CORSConfig       CORSConfig       `mapstructure:"cors"`
	ClientConfig     ClientConfig     `mapstructure:"client"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	User   string `mapstructure:"user"`
	DBName string `mapstructure:"dbname"`
	DBConn string `mapstructure:"-"`
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type NATSConfig struct {
	URL    string `mapstructure:"url"`
	Stream string `mapstructure:"stream"`
}

type ProcessingConfig struct {
	Workers   int           `mapstructure:"workers"`
	Tick      time.Duration `mapstructure:"tick"`
	StepPause time.Duration `mapstructure:"step_pause"`
}

type UploadConfig struct {
	MaxSize int64   `mapstructure:"max_size"`
	Rate    float64 `mapstructure:"rate"`
	Burst   int     `mapstructure:"burst"`
}

type RetentionConfig struct {
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ClientConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// LoadServiceConfig reads configPath (if given) on top of the defaults and
// PDFOCR_* environment variables. The database password is only required
// when the postgres storage driver is selected.
func LoadServiceConfig(log *zap.Logger, configPath, dbPasswordPath string) (ServiceConfig, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			log.Error("Failed to Read config", zaplogger.Err(err), zap.String("path", configPath))
			return ServiceConfig{}, err
		}
	}

	var serviceConfig ServiceConfig
	if err := v.Unmarshal(&serviceConfig); err != nil {
		log.Error("Failed to Unmarshal config", zaplogger.Err(err))
		return ServiceConfig{}, err
	}

	if err := serviceConfig.validate(); err != nil {
		log.Error("Invalid config", zaplogger.Err(err))
		return ServiceConfig{}, err
	}

	if serviceConfig.Storage.Driver == StoragePostgres {
		dbConnStr, err := serviceConfig.DSN(dbPasswordPath)
		if err != nil {
			log.Error("Error generating DSN for database connection", zaplogger.Err(err))
			return ServiceConfig{}, err
		}
		serviceConfig.DbConfig.DBConn = dbConnStr
	}

	log.Info("Config",
		zap.String("address", serviceConfig.Address),
		zap.String("storage", serviceConfig.Storage.Driver),
		zap.String("nats_url", serviceConfig.NATSConfig.URL),
		zap.Int("workers", serviceConfig.ProcessingConfig.Workers))
	return serviceConfig, nil
}

func (d ServiceConfig) DSN(dbPasswordPath string) (string, error) {
	password := os.Getenv(dbPasswordPath)
	if password == "" {
		return "", fmt.Errorf("environment variable %s is not set", dbPasswordPath)
	}

	return fmt.Sprintf("%s://%s:%s@%s:%d/%s",
		d.DbConfig.Driver, d.DbConfig.User, password, d.DbConfig.Host, d.DbConfig.Port, d.DbConfig.DBName), nil
}

func (d ServiceConfig) validate() error {
	switch d.Storage.Driver {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", d.Storage.Driver)
	}
	if d.ProcessingConfig.Workers <= 0 {
		return fmt.Errorf("processing.workers must be positive, got %d", d.ProcessingConfig.Workers)
	}
	if d.UploadConfig.MaxSize <= 0 {
		return fmt.Errorf("upload.max_size must be positive, got %d", d.UploadConfig.MaxSize)
	}
	if d.ClientConfig.PollInterval <= 0 {
		return fmt.Errorf("client.poll_interval must be positive, got %s", d.ClientConfig.PollInterval)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("address", ":8000")
	v.SetDefault("version", "dev")
	v.SetDefault("log_level", "debug")
	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "pdfocr")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "pdfocr")
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.stream", "OCR")

	v.SetDefault("processing.workers", DefaultWorkers)
	v.SetDefault("processing.tick", DefaultProcessingTick)
	v.SetDefault("processing.step_pause", DefaultStepPause)

	v.SetDefault("upload.max_size", DefaultMaxUploadSize)
	v.SetDefault("upload.rate", 5.0)
	v.SetDefault("upload.burst", 10)

	v.SetDefault("retention.schedule", "@every 10m")
	v.SetDefault("retention.max_age", time.Hour)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("client.base_url", DefaultAPIURL)
	v.SetDefault("client.poll_interval", DefaultPollInterval)
	v.SetDefault("client.timeout", 30*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("client.base_url", EnvPrefix+"_CLIENT_BASE_URL", EnvPrefix+"_API_URL")

	return v
}
