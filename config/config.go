package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port          string
	BaseURL       string // 產生邀請連結與 QR code 用
	EventCacheTTL time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig 封面圖片上傳 (S3)
type StorageConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// SessionConfig 主辦人 session cookie 設定
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Storage:  GetStorageConfig(),
		Session:  GetSessionConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			BaseURL:       "http://localhost:8080",
			EventCacheTTL: time.Minute,
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Session: SessionConfig{
			Secret:     "test-secret",
			TTL:        time.Hour,
			CookieName: "host_session",
		},
	}
}

func GetServerConfig() ServerConfig {
	port := getEnv("PORT", "8080")
	return ServerConfig{
		Port:          port,
		BaseURL:       getEnv("BASE_URL", "http://localhost:"+port),
		EventCacheTTL: getDuration("EVENT_CACHE_TTL", 5*time.Minute),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Region:          getEnv("S3_REGION", "us-east-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
	}
}

func GetSessionConfig() SessionConfig {
	return SessionConfig{
		Secret:     getEnv("SESSION_SECRET", "dev-session-secret"),
		TTL:        getDuration("SESSION_TTL", 7*24*time.Hour),
		CookieName: getEnv("SESSION_COOKIE", "host_session"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		panic(err)
	}
	return d
}
