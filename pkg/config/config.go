package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Board    BoardConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig for the unread-notification-count cache (optional).
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
}

// NATSConfig for the optional board-event mirror.
type NATSConfig struct {
	URL string // nats://localhost:4222
}

type JWTConfig struct {
	Secret string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

type StorageConfig struct {
	Type          string // local, s3
	BasePath      string // for local: ./uploads
	BaseURL       string // URL serving uploaded files
	MaxUploadSize int64  // bytes

	S3 S3Config
}

type S3Config struct {
	Endpoint  string // minio:9000 or xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

// BoardConfig holds board-domain tunables.
type BoardConfig struct {
	NotificationTTLDays int // persisted notifications expire after this many days
	DueSoonWindowHours  int // due-date reminders cover tasks due within this window
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; plain environment variables are used instead.
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	maxUploadSize, _ := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "10485760"), 10, 64) // 10MB default
	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	notificationTTLDays, _ := strconv.Atoi(getEnv("NOTIFICATION_TTL_DAYS", "30"))
	dueSoonWindowHours, _ := strconv.Atoi(getEnv("DUE_SOON_WINDOW_HOURS", "24"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "TaskBoard"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "taskboard"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Storage: StorageConfig{
			Type:          getEnv("STORAGE_TYPE", "local"),
			BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			MaxUploadSize: maxUploadSize,
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "attachments"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Board: BoardConfig{
			NotificationTTLDays: notificationTTLDays,
			DueSoonWindowHours:  dueSoonWindowHours,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
