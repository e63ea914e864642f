package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	CredentialsFile  = "file"
	CredentialsMinIO = "minio"
)

type DB struct {
	Driver     string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
	SQLitePath string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

// Credentials describes where the flat credential file lives when DB.Driver is memory.
type Credentials struct {
	Backend string
	Dir     string
	Object  string
}

type Admin struct {
	Username string
	Password string
}

type Config struct {
	ServerPort      int
	Env             string
	DB              DB
	MinIO           MinIO
	Credentials     Credentials
	Admin           Admin
	SessionSecret   string
	SessionDuration time.Duration
	SecureCookies   bool
	CSRFKey         string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func LoadDB() DB {
	return DB{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "todoforum"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "data/todoforum.db"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "todoforum"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadCredentials() Credentials {
	return Credentials{
		Backend: getEnv("CREDENTIALS_BACKEND", CredentialsFile),
		Dir:     getEnv("CREDENTIALS_DIR", "data"),
		Object:  getEnv("CREDENTIALS_OBJECT", "users.json"),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:  getEnvAsInt("SERVER_PORT", 8080),
		Env:         getEnv("APP_ENV", "development"),
		DB:          LoadDB(),
		MinIO:       LoadMinIO(),
		Credentials: LoadCredentials(),
		Admin: Admin{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionDuration: parseDuration(getEnv("SESSION_DURATION", "720h"), 30*24*time.Hour),
		SecureCookies:   getEnvBool("SECURE_COOKIES", false),
		CSRFKey:         getEnv("CSRF_KEY", ""),
	}
}

// UsesSQL reports whether the relational store backs users, todos and the forum.
func (c *Config) UsesSQL() bool {
	return c.DB.Driver != DriverMemory
}
