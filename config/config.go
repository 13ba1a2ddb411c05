package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farellandr/civic-events/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type Config struct {
	Env             string        `yaml:"env"`
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	JWTSecret       string        `yaml:"jwt_secret"`
	DB              DBConfig      `yaml:"db"`
}

type DBConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
	LogLevel   string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		Env:             "local",
		Port:            "4000",
		ShutdownTimeout: 10 * time.Second,
		DB: DBConfig{
			Driver:     DriverPostgres,
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Name:       "civic-events-db",
			SSLMode:    "disable",
			SQLitePath: "file:civic-events.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
			LogLevel:   "warn",
		},
	}
}

// LoadConfig reads the optional YAML file named by CONFIG_PATH and then
// applies environment overrides on top of it.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.DB.Driver, "DB_DRIVER")
	overrideString(&cfg.DB.Host, "DB_HOST")
	overrideString(&cfg.DB.Port, "DB_PORT")
	overrideString(&cfg.DB.User, "DB_USER")
	overrideString(&cfg.DB.Password, "DB_PASSWORD")
	overrideString(&cfg.DB.Name, "DB_NAME")
	overrideString(&cfg.DB.SSLMode, "DB_SSLMODE")
	overrideString(&cfg.DB.SQLitePath, "SQLITE_PATH")
	overrideString(&cfg.DB.LogLevel, "DB_LOG_LEVEL")

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", cfg.Port, err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func overrideString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func InitDatabase(cfg *DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; one connection serializes transactions
		// instead of failing them with "database is locked".
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.Feedback{},
		&models.Notification{},
		&models.Announcement{},
		&models.Promo{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
