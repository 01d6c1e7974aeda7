package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Placeholder values shipped in the sample .env. While the remote database
// settings still carry these, the service runs against the local file store.
const (
	PlaceholderHost = "TU_HOST_AQUI"
	PlaceholderName = "TU_BASE_AQUI"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Remote RemoteConfig
	Local  LocalStoreConfig
	Redis  RedisConfig
	JWT    JWTConfig
	CORS   CORSConfig
	Log    LogConfig
	Master MasterUserConfig
	School SchoolConfig
	Stats  StatsConfig
}

// RemoteConfig holds the remote document-store credentials.
type RemoteConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// Configured reports whether real remote credentials were provided. The
// decision is taken once at startup; the gateway never re-checks it.
func (c RemoteConfig) Configured() bool {
	if c.Host == "" || c.Name == "" {
		return false
	}
	return c.Host != PlaceholderHost && !strings.Contains(c.Name, PlaceholderName)
}

// LocalStoreConfig controls the fallback file store.
type LocalStoreConfig struct {
	Dir    string
	Prefix string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MasterUserConfig is the emergency credential pair that always logs in,
// even when the backing store is unreachable.
type MasterUserConfig struct {
	Username string
	Password string
	FullName string
}

// SchoolConfig carries display strings used on exported reports.
type SchoolConfig struct {
	Name    string
	AppName string
}

// StatsConfig governs the optional dashboard summary cache.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Remote = RemoteConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Local = LocalStoreConfig{
		Dir:    v.GetString("LOCAL_STORE_DIR"),
		Prefix: v.GetString("LOCAL_STORE_PREFIX"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Master = MasterUserConfig{
		Username: v.GetString("MASTER_USERNAME"),
		Password: v.GetString("MASTER_PASSWORD"),
		FullName: v.GetString("MASTER_FULL_NAME"),
	}

	cfg.School = SchoolConfig{
		Name:    v.GetString("SCHOOL_NAME"),
		AppName: v.GetString("APP_NAME"),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	// Remote credentials default to placeholders so a fresh checkout runs
	// in local-store mode without any setup.
	v.SetDefault("DB_HOST", PlaceholderHost)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", PlaceholderName)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("LOCAL_STORE_PREFIX", "inselpa")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MASTER_USERNAME", "admin")
	v.SetDefault("MASTER_PASSWORD", "321456")
	v.SetDefault("MASTER_FULL_NAME", "Administrador Principal")

	v.SetDefault("SCHOOL_NAME", "Institución Educativa la Pascuala")
	v.SetDefault("APP_NAME", "Incidencias INSELPA")

	v.SetDefault("ENABLE_STATS_CACHE", false)
	v.SetDefault("STATS_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
