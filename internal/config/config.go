package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	FileStorageLocal  = "local"
	FileStorageGridFS = "gridfs"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	Storage string // postgres|memory

	JWTSecret string

	Log      string
	LogLevel string
	LogDir   string
	Env      string // dev|prod

	FileStorage   string // local|gridfs
	UploadDir     string
	MongoURI      string
	MongoDatabase string
	MongoBucket   string
	MaxImageSize  int64
	MaxVideoSize  int64

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	FeaturedCacheTTL time.Duration

	ShutdownTimeout time.Duration
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		Storage: strings.ToLower(def(os.Getenv("STORAGE"), StoragePostgres)),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		LogDir:   def(os.Getenv("LOG_DIR"), "logs"),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		FileStorage:   strings.ToLower(def(os.Getenv("FILE_STORAGE"), FileStorageLocal)),
		UploadDir:     def(os.Getenv("UPLOAD_DIR"), "uploads"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: def(os.Getenv("MONGO_DATABASE"), "blogplatform"),
		MongoBucket:   def(os.Getenv("MONGO_BUCKET"), "uploads"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.MaxImageSize, err = strconv.ParseInt(def(os.Getenv("MAX_IMAGE_SIZE"), "5242880"), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_IMAGE_SIZE: %w", err)
	}
	if cfg.MaxVideoSize, err = strconv.ParseInt(def(os.Getenv("MAX_VIDEO_SIZE"), "104857600"), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_VIDEO_SIZE: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(def(os.Getenv("REDIS_DB"), "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.FeaturedCacheTTL, err = time.ParseDuration(def(os.Getenv("FEATURED_CACHE_TTL"), "5m")); err != nil {
		return nil, fmt.Errorf("FEATURED_CACHE_TTL: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(def(os.Getenv("SHUTDOWN_TIMEOUT"), "10s")); err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	switch c.Storage {
	case StoragePostgres:
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case StorageMemory:
		warnings = append(warnings, "STORAGE=memory: data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (postgres|memory)", c.Storage)
	}

	switch c.FileStorage {
	case FileStorageLocal:
	case FileStorageGridFS:
		if c.MongoURI == "" {
			return nil, fmt.Errorf("FILE_STORAGE=gridfs requires MONGO_URI")
		}
	default:
		return nil, fmt.Errorf("unknown FILE_STORAGE %q (local|gridfs)", c.FileStorage)
	}

	// без секрета все защищённые маршруты вернут 401
	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is empty, featured posts cache disabled")
	}

	// PORT
	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
