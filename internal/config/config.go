package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/j-bridge/volunteerhub.com/internal/constants"
)

type Config struct {
	Addr    string `yaml:"addr"`
	GinMode string `yaml:"gin_mode"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	DBDriver   string `yaml:"db_driver"`
	DBPath     string `yaml:"db_path"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`

	JWTSecret        string        `yaml:"jwt_secret"`
	JWTIssuer        string        `yaml:"jwt_issuer"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl"`
	DownloadTokenTTL time.Duration `yaml:"download_token_ttl"`
	ResetTokenTTL    time.Duration `yaml:"reset_token_ttl"`

	CORSOrigins []string `yaml:"cors_origins"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	MailFrom     string `yaml:"mail_from"`
	ContactInbox string `yaml:"contact_inbox"`
	MailWorkers  int    `yaml:"mail_workers"`
	MailQueue    int    `yaml:"mail_queue"`

	CertificatesDir string `yaml:"certificates_dir"`
	PublicBaseURL   string `yaml:"public_base_url"`
	FrontendURL     string `yaml:"frontend_url"`

	AuthRateLimit float64 `yaml:"auth_rate_limit"`
	AuthRateBurst int     `yaml:"auth_rate_burst"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		Addr:             ":8080",
		GinMode:          "debug",
		LogLevel:         "info",
		LogFormat:        "text",
		DBDriver:         "sqlite",
		DBPath:           "volunteerhub.db",
		DBHost:           "localhost",
		DBPort:           "5432",
		DBUser:           "volunteerhub",
		DBPassword:       "volunteerhub",
		DBName:           "volunteerhub",
		DBSSLMode:        "disable",
		JWTSecret:        "dev-secret-change-me",
		JWTIssuer:        "volunteerhub",
		AccessTokenTTL:   constants.DefaultAccessTokenTTL,
		RefreshTokenTTL:  constants.DefaultRefreshTokenTTL,
		DownloadTokenTTL: constants.DefaultDownloadTokenTTL,
		ResetTokenTTL:    constants.DefaultResetTokenTTL,
		CORSOrigins:      []string{"http://localhost:3000"},
		SMTPPort:         587,
		MailFrom:         "no-reply@volunteerhub.local",
		ContactInbox:     "support@volunteerhub.local",
		MailWorkers:      2,
		MailQueue:        100,
		CertificatesDir:  "storage/certificates",
		PublicBaseURL:    "http://localhost:8080",
		FrontendURL:      "http://localhost:3000",
		AuthRateLimit:    1,
		AuthRateBurst:    10,
	}
}

// Load reads configuration from the environment on top of the defaults.
func Load() *Config {
	cfg := Defaults()
	applyEnv(cfg)
	return cfg
}

// LoadFile overlays a YAML file onto the defaults, then applies the environment.
// An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment. Missing files are ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Validate checks values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}

// SMTPEnabled reports whether outgoing mail should go through an SMTP server.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func applyEnv(c *Config) {
	c.Addr = getEnv("APP_ADDR", c.Addr)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBSSLMode = getEnv("DB_SSLMODE", c.DBSSLMode)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.RefreshTokenTTL = getEnvDuration("REFRESH_TOKEN_TTL", c.RefreshTokenTTL)
	c.DownloadTokenTTL = getEnvDuration("DOWNLOAD_TOKEN_TTL", c.DownloadTokenTTL)
	c.ResetTokenTTL = getEnvDuration("RESET_TOKEN_TTL", c.ResetTokenTTL)

	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		c.CORSOrigins = splitList(origins)
	}

	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getEnvInt("SMTP_PORT", c.SMTPPort)
	c.SMTPUser = getEnv("SMTP_USER", c.SMTPUser)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.MailFrom = getEnv("MAIL_FROM", c.MailFrom)
	c.ContactInbox = getEnv("CONTACT_INBOX", c.ContactInbox)
	c.MailWorkers = getEnvInt("MAIL_WORKERS", c.MailWorkers)
	c.MailQueue = getEnvInt("MAIL_QUEUE", c.MailQueue)

	c.CertificatesDir = getEnv("CERTIFICATES_DIR", c.CertificatesDir)
	c.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", c.PublicBaseURL), "/")
	c.FrontendURL = strings.TrimRight(getEnv("FRONTEND_URL", c.FrontendURL), "/")

	if v := getEnv("AUTH_RATE_LIMIT", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.AuthRateLimit = f
		}
	}
	c.AuthRateBurst = getEnvInt("AUTH_RATE_BURST", c.AuthRateBurst)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
