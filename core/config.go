package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Build           string
		Env             string // DEV (local; default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		SecretKey       string
		RollbarToken    string
		SendgridApiKey  string
		FrontendBaseURL string
		WorkDir         string

		PasswordResetTimeoutDelta time.Duration

		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Cache    CacheConfig
	}

	ServerConfig struct {
		Host                      string
		Port                      int
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	CacheConfig struct {
		Backend       string // memory (default), sqlite, redis
		SQLitePath    string
		RedisAddr     string
		RedisDB       int
		RedisPassword string
		TTL           time.Duration
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	if addr, err := mail.ParseAddress(c.defaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
}

func (sc ServerConfig) Address() string {
	return net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
}

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)

	v.SetDefault("APP_NAME", "CX Dashboard")
	v.SetDefault("BUILD", "dev")
	v.SetDefault("DEBUG", true)
	v.SetDefault("SECRET_KEY", "x8!s-0l2cv$e+9q#t4)m7pz^c@wq1(gk&3ay_n6u5jd*h")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("DEFAULT_FROM_EMAIL", "CX Dashboard <noreply@localhost>")
	v.SetDefault("PASSWORD_RESET_TIMEOUT_DELTA", 3*24*time.Hour)

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_DEBUG_HOST", "0.0.0.0:4000")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second)
	v.SetDefault("JWT_EXPIRATION_DELTA", 7*24*time.Hour)
	v.SetDefault("JWT_REFRESH_EXPIRATION_DELTA", 4*time.Hour)

	v.SetDefault("DB_ENGINE", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "cxdash")
	v.SetDefault("DB_USER", "cxdash")
	v.SetDefault("DB_PASSWORD", "cxdash")
	v.SetDefault("DB_ADMIN_USER", "postgres")
	v.SetDefault("DB_ADMIN_PASSWORD", "")
	v.SetDefault("DB_DISABLE_TLS", true)

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_SQLITE_PATH", "cxdash-cache.db")
	v.SetDefault("CACHE_REDIS_ADDR", "localhost:6379")
	v.SetDefault("CACHE_REDIS_DB", 0)
	v.SetDefault("CACHE_REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", time.Duration(0))
}

// NewConfig loads the configuration from defaults, an optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the current env, e.g. PROD_DB_HOST.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:          v.GetString("APP_NAME"),
		Build:            v.GetString("BUILD"),
		Env:              env,
		Debug:            v.GetBool("DEBUG"),
		TestMode:         env == "TEST",
		SecretKey:        v.GetString("SECRET_KEY"),
		RollbarToken:     v.GetString("ROLLBAR_TOKEN"),
		SendgridApiKey:   v.GetString("SENDGRID_API_KEY"),
		FrontendBaseURL:  v.GetString("FRONTEND_BASE_URL"),
		WorkDir:          wd,
		defaultFromEmail: v.GetString("DEFAULT_FROM_EMAIL"),

		PasswordResetTimeoutDelta: v.GetDuration("PASSWORD_RESET_TIMEOUT_DELTA"),
		Server: ServerConfig{
			Host:                      v.GetString("SERVER_HOST"),
			Port:                      v.GetInt("SERVER_PORT"),
			DebugHost:                 v.GetString("SERVER_DEBUG_HOST"),
			ShutdownTimeout:           v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			JWTExpirationDelta:        v.GetDuration("JWT_EXPIRATION_DELTA"),
			JWTRefreshExpirationDelta: v.GetDuration("JWT_REFRESH_EXPIRATION_DELTA"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("DB_ENGINE"),
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetInt("DB_PORT"),
			Name:          v.GetString("DB_NAME"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			AdminUser:     v.GetString("DB_ADMIN_USER"),
			AdminPassword: v.GetString("DB_ADMIN_PASSWORD"),
			DisableTLS:    v.GetBool("DB_DISABLE_TLS"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(v.GetString("CACHE_BACKEND")),
			SQLitePath:    v.GetString("CACHE_SQLITE_PATH"),
			RedisAddr:     v.GetString("CACHE_REDIS_ADDR"),
			RedisDB:       v.GetInt("CACHE_REDIS_DB"),
			RedisPassword: v.GetString("CACHE_REDIS_PASSWORD"),
			TTL:           v.GetDuration("CACHE_TTL"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no .env lookups, debug on, fixed secret.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		AppName:          v.GetString("APP_NAME"),
		Build:            "test",
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		SecretKey:        "secret",
		FrontendBaseURL:  v.GetString("FRONTEND_BASE_URL"),
		defaultFromEmail: v.GetString("DEFAULT_FROM_EMAIL"),

		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,

		Server: ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			ShutdownTimeout:           time.Second,
		},
		Cache: CacheConfig{Backend: "memory"},
	}
}

// Getwd finds the project root: the closest parent directory holding a go.mod.
// go test runs from the package directory, so the working directory alone is not enough.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
