package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultEnv          = EnvLocal
	defaultLogLevel     = "info"
	defaultDriver       = DriverPostgres
	defaultMigrations   = "migrations"
	defaultSQLitePath   = "skusync.db"
	defaultAuthURL      = "https://accounts.zoho.eu/oauth/v2"
	defaultInventoryURL = "https://www.zohoapis.eu/inventory/v1"
	defaultAuthScheme   = "Zoho-oauthtoken"
	defaultTimeout      = 30 * time.Second
	defaultTokenMargin  = 10 * time.Minute
	defaultBatchSize    = 25
	defaultRecordDelay  = 200 * time.Millisecond
	defaultBatchDelay   = 2 * time.Second
	defaultRunAddress   = ":8080"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env       string
	Logger    Logger
	DB        DB
	Inventory Inventory
	Sync      Sync
	Server    Server
}

type Logger struct {
	LogLevel string
}

type DB struct {
	Driver      string
	DatabaseURI string
	Migrations  string
	SQLitePath  string
}

// Inventory параметры удаленного сервиса каталога
type Inventory struct {
	AuthURL      string
	APIURL       string
	ClientID     string
	ClientSecret string
	RefreshToken string
	OrgID        string
	AuthScheme   string
	Timeout      time.Duration
	TokenMargin  time.Duration
}

type Sync struct {
	BatchSize        int
	InterRecordDelay time.Duration
	InterBatchDelay  time.Duration
}

type Server struct {
	RunAddress string
	APIToken   string
}

// Load читает .env, переменные окружения и (если задан через viper) конфигурационный файл
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load %s: %v", envPath, err)
		}
	}

	viper.AutomaticEnv()
	setDefaults()

	if file := viper.ConfigFileUsed(); file != "" {
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Env:    viper.GetString("APP_ENV"),
		Logger: Logger{LogLevel: viper.GetString("LOG_LEVEL")},
		DB: DB{
			Driver:      viper.GetString("DATABASE_DRIVER"),
			DatabaseURI: viper.GetString("DATABASE_URI"),
			Migrations:  viper.GetString("MIGRATIONS_PATH"),
			SQLitePath:  viper.GetString("SQLITE_PATH"),
		},
		Inventory: Inventory{
			AuthURL:      viper.GetString("INVENTORY_AUTH_URL"),
			APIURL:       viper.GetString("INVENTORY_API_URL"),
			ClientID:     viper.GetString("INVENTORY_CLIENT_ID"),
			ClientSecret: viper.GetString("INVENTORY_CLIENT_SECRET"),
			RefreshToken: viper.GetString("INVENTORY_REFRESH_TOKEN"),
			OrgID:        viper.GetString("INVENTORY_ORG_ID"),
			AuthScheme:   viper.GetString("INVENTORY_AUTH_SCHEME"),
			Timeout:      viper.GetDuration("INVENTORY_TIMEOUT"),
			TokenMargin:  viper.GetDuration("INVENTORY_TOKEN_MARGIN"),
		},
		Sync: Sync{
			BatchSize:        viper.GetInt("SYNC_BATCH_SIZE"),
			InterRecordDelay: viper.GetDuration("SYNC_RECORD_DELAY"),
			InterBatchDelay:  viper.GetDuration("SYNC_BATCH_DELAY"),
		},
		Server: Server{
			RunAddress: viper.GetString("RUN_ADDRESS"),
			APIToken:   viper.GetString("API_TOKEN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad как Load, но завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func setDefaults() {
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("DATABASE_DRIVER", defaultDriver)
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrations)
	viper.SetDefault("SQLITE_PATH", defaultSQLitePath)
	viper.SetDefault("INVENTORY_AUTH_URL", defaultAuthURL)
	viper.SetDefault("INVENTORY_API_URL", defaultInventoryURL)
	viper.SetDefault("INVENTORY_AUTH_SCHEME", defaultAuthScheme)
	viper.SetDefault("INVENTORY_TIMEOUT", defaultTimeout)
	viper.SetDefault("INVENTORY_TOKEN_MARGIN", defaultTokenMargin)
	viper.SetDefault("SYNC_BATCH_SIZE", defaultBatchSize)
	viper.SetDefault("SYNC_RECORD_DELAY", defaultRecordDelay)
	viper.SetDefault("SYNC_BATCH_DELAY", defaultBatchDelay)
	viper.SetDefault("RUN_ADDRESS", defaultRunAddress)
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DatabaseURI == "" {
			return fmt.Errorf("%w: DATABASE_URI не может быть пустым", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH не может быть пустым", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: неизвестный драйвер БД %q", ErrInvalidConfig, c.DB.Driver)
	}

	inv := c.Inventory
	if inv.ClientID == "" || inv.ClientSecret == "" || inv.RefreshToken == "" {
		return fmt.Errorf("%w: не заданы учетные данные INVENTORY_CLIENT_ID/SECRET/REFRESH_TOKEN", ErrInvalidConfig)
	}
	if inv.OrgID == "" {
		return fmt.Errorf("%w: INVENTORY_ORG_ID не может быть пустым", ErrInvalidConfig)
	}
	if inv.TokenMargin < 0 {
		return fmt.Errorf("%w: INVENTORY_TOKEN_MARGIN не может быть отрицательным", ErrInvalidConfig)
	}

	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("%w: SYNC_BATCH_SIZE должен быть положительным", ErrInvalidConfig)
	}
	if c.Sync.InterRecordDelay < 0 || c.Sync.InterBatchDelay < 0 {
		return fmt.Errorf("%w: задержки не могут быть отрицательными", ErrInvalidConfig)
	}

	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
