package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailDriverLog = "log"
	MailDriverSES = "ses"

	defaultSessionSecret = "change-me-session-secret"
	defaultPhase2Secret  = "change-me-phase2-secret"
)

type Config struct {
	App struct {
		Env                    string `yaml:"env"`
		Port                   string `yaml:"port"`
		FrontendURL            string `yaml:"frontend_url"`
		PhoneRegion            string `yaml:"phone_region"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	} `yaml:"app"`
	DB struct {
		Driver     string `yaml:"driver"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		SSLMode    string `yaml:"sslmode"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"db"`
	JWT struct {
		SessionSecret      string `yaml:"session_secret"`
		SessionExpiryHours int    `yaml:"session_expiry_hours"`
		Phase2Secret       string `yaml:"phase2_secret"`
		Phase2ExpiryHours  int    `yaml:"phase2_expiry_hours"`
	} `yaml:"jwt"`
	Mail struct {
		Driver             string `yaml:"driver"`
		Sender             string `yaml:"sender"`
		AWSRegion          string `yaml:"aws_region"`
		AWSAccessKeyID     string `yaml:"aws_access_key_id"`
		AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
	} `yaml:"mail"`
	Jobs struct {
		// Empty disables the periodic standings rebuild.
		StandingsCron string `yaml:"standings_cron"`
	} `yaml:"jobs"`
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, and finally the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on system environment variables")
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.overlayEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWT.SessionSecret == defaultSessionSecret || cfg.JWT.Phase2Secret == defaultPhase2Secret {
		log.Warn().Msg("Using default JWT secrets. Set JWT_SESSION_SECRET and JWT_PHASE2_SECRET for production.")
	}
	if cfg.DB.Password == "password" && cfg.App.Env == "production" {
		log.Warn().Msg("Using default DB password in production. Set DB_PASSWORD.")
	}

	appConfig = cfg
	return cfg, nil
}

// Defaults returns a configuration suitable for local development.
func Defaults() *Config {
	cfg := &Config{}
	cfg.App.Env = "development"
	cfg.App.Port = "8088"
	cfg.App.FrontendURL = "http://localhost:3000"
	cfg.App.PhoneRegion = "KE"
	cfg.App.ShutdownTimeoutSeconds = 30

	cfg.DB.Driver = DriverPostgres
	cfg.DB.Host = "localhost"
	cfg.DB.Port = "5432"
	cfg.DB.User = "postgres"
	cfg.DB.Password = "password"
	cfg.DB.Name = "lu_league"
	cfg.DB.SSLMode = "disable"
	cfg.DB.SQLitePath = "lu_league.db"

	cfg.JWT.SessionSecret = defaultSessionSecret
	cfg.JWT.SessionExpiryHours = 24 * 7
	cfg.JWT.Phase2Secret = defaultPhase2Secret
	cfg.JWT.Phase2ExpiryHours = 24

	cfg.Mail.Driver = MailDriverLog
	cfg.Mail.Sender = "no-reply@luleague.local"

	cfg.Jobs.StandingsCron = "0 3 * * *"
	return cfg
}

func (cfg *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) overlayEnv() error {
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Port = getEnv("PORT", cfg.App.Port)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", cfg.App.FrontendURL)
	cfg.App.PhoneRegion = getEnv("PHONE_REGION", cfg.App.PhoneRegion)

	cfg.DB.Driver = getEnv("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnv("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnv("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.SQLitePath = getEnv("DB_SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.JWT.SessionSecret = getEnv("JWT_SESSION_SECRET", cfg.JWT.SessionSecret)
	cfg.JWT.Phase2Secret = getEnv("JWT_PHASE2_SECRET", cfg.JWT.Phase2Secret)

	cfg.Mail.Driver = getEnv("MAIL_DRIVER", cfg.Mail.Driver)
	cfg.Mail.Sender = getEnv("MAIL_SENDER", cfg.Mail.Sender)
	cfg.Mail.AWSRegion = getEnv("AWS_REGION", cfg.Mail.AWSRegion)
	cfg.Mail.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.Mail.AWSAccessKeyID)
	cfg.Mail.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.Mail.AWSSecretAccessKey)

	cfg.Jobs.StandingsCron = getEnv("STANDINGS_CRON", cfg.Jobs.StandingsCron)

	var err error
	if cfg.App.ShutdownTimeoutSeconds, err = getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.App.ShutdownTimeoutSeconds); err != nil {
		return err
	}
	if cfg.JWT.SessionExpiryHours, err = getEnvAsInt("JWT_SESSION_EXPIRY_HOURS", cfg.JWT.SessionExpiryHours); err != nil {
		return err
	}
	if cfg.JWT.Phase2ExpiryHours, err = getEnvAsInt("JWT_PHASE2_EXPIRY_HOURS", cfg.JWT.Phase2ExpiryHours); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (cfg *Config) Validate() error {
	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	switch cfg.Mail.Driver {
	case MailDriverLog, MailDriverSES:
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", cfg.Mail.Driver)
	}
	if cfg.JWT.SessionExpiryHours <= 0 || cfg.JWT.Phase2ExpiryHours <= 0 {
		return errors.New("token expiry hours must be positive")
	}
	if cfg.JWT.SessionSecret == "" || cfg.JWT.Phase2Secret == "" {
		return errors.New("jwt secrets must not be empty")
	}
	return nil
}

func (cfg *Config) SessionTTL() time.Duration {
	return time.Duration(cfg.JWT.SessionExpiryHours) * time.Hour
}

func (cfg *Config) Phase2TTL() time.Duration {
	return time.Duration(cfg.JWT.Phase2ExpiryHours) * time.Hour
}

func (cfg *Config) ShutdownTimeout() time.Duration {
	return time.Duration(cfg.App.ShutdownTimeoutSeconds) * time.Second
}

// Dialector picks the gorm driver for the configured database.
func (cfg *Config) Dialector() gorm.Dialector {
	if cfg.DB.Driver == DriverSQLite {
		return sqlite.Open(cfg.DB.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000")
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
	)
	return postgres.Open(dsn)
}

// ConnectDB establishes a connection to the database using the provided configuration.
// It sets the global DB variable.
func ConnectDB(dbCfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if dbCfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(dbCfg.Dialector(), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dbCfg.DB.Driver == DriverSQLite {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = gormDB
	log.Info().Str("driver", dbCfg.DB.Driver).Msg("Connected to database")
	return gormDB, nil
}

// Initialize loads all configurations and connects to the database.
// This should be called once at the start of the application.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg

		_, err = ConnectDB(*appConfig)
		if err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
// It exits the process if Initialize has not run.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal().Msg("Configuration not loaded. Call config.Initialize() first.")
	}
	return appConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}
