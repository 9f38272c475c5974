package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	Diagnosis DiagnosisConfig
}

type AppConfig struct {
	Port      string
	Env       string
	BaseURL   string
	DemoLogin bool
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	RoomExpiry    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	From     string
}

type StorageConfig struct {
	Dir       string
	PublicURL string
}

type DiagnosisConfig struct {
	BaseURL  string
	APIToken string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	roomExpiry, err := time.ParseDuration(viper.GetString("JWT_ROOM_EXPIRY"))
	if err != nil {
		roomExpiry = 2 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:      viper.GetString("APP_PORT"),
			Env:       viper.GetString("APP_ENV"),
			BaseURL:   viper.GetString("APP_BASE_URL"),
			DemoLogin: viper.GetBool("APP_DEMO_LOGIN"),
		},
		DB: DBConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			MigrationsDir: viper.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
			RoomExpiry:    roomExpiry,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetString("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			FromName: viper.GetString("SMTP_FROM_NAME"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Storage: StorageConfig{
			Dir:       viper.GetString("STORAGE_DIR"),
			PublicURL: viper.GetString("STORAGE_PUBLIC_URL"),
		},
		Diagnosis: DiagnosisConfig{
			BaseURL:  viper.GetString("DIAGNOSIS_BASE_URL"),
			APIToken: viper.GetString("DIAGNOSIS_API_TOKEN"),
		},
	}

	if config.DB.MigrationsDir == "" {
		config.DB.MigrationsDir = "db/migrations"
	}
	if config.Storage.Dir == "" {
		config.Storage.Dir = "data/storage"
	}

	return config, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
