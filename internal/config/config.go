package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	SMS struct {
		Enabled bool   `yaml:"enabled"`
		From    string `yaml:"from"`
	} `yaml:"sms"`

	JWT struct {
		AccessSecret  string `yaml:"access_secret"`
		RefreshSecret string `yaml:"refresh_secret"`
		AccessTTLMin  int    `yaml:"access_ttl_minutes"`
		RefreshTTLHrs int    `yaml:"refresh_ttl_hours"`
	} `yaml:"jwt"`

	Auth struct {
		// Требовать подтверждения и email, и телефона для входа.
		// По умолчанию достаточно email.
		RequirePhoneVerification bool `yaml:"require_phone_verification"`
		MaxLoginAttempts         int  `yaml:"max_login_attempts"`
		CodeTTLHours             int  `yaml:"code_ttl_hours"`
		ResetTTLMinutes          int  `yaml:"reset_ttl_minutes"`
		OTPTTLMinutes            int  `yaml:"otp_ttl_minutes"`
	} `yaml:"auth"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию из config.yaml либо,
// если задан DATABASE_URL, целиком из переменных окружения (режим теста/CI).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.AccessSecret = os.Getenv("JWT_ACCESS_SECRET")
	cfg.JWT.RefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Auth.RequirePhoneVerification = os.Getenv("REQUIRE_BOTH_VERIFICATIONS") == "true"

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@jobconnect.app"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.AccessTTLMin == 0 {
		cfg.JWT.AccessTTLMin = 15
	}
	if cfg.JWT.RefreshTTLHrs == 0 {
		cfg.JWT.RefreshTTLHrs = 7 * 24
	}
	if cfg.Auth.MaxLoginAttempts == 0 {
		cfg.Auth.MaxLoginAttempts = 5
	}
	if cfg.Auth.CodeTTLHours == 0 {
		cfg.Auth.CodeTTLHours = 24
	}
	if cfg.Auth.ResetTTLMinutes == 0 {
		cfg.Auth.ResetTTLMinutes = 60
	}
	if cfg.Auth.OTPTTLMinutes == 0 {
		cfg.Auth.OTPTTLMinutes = 5
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
