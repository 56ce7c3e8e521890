// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	YouTube  YouTubeConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Tools    ToolsConfig
	APIKey   string
	// DefaultUserID is the owner assigned to persisted content records
	DefaultUserID string
	// WorkDir is the process-wide temporary directory for downloads and previews
	WorkDir string
}

// DatabaseConfig holds run history database connection settings.
// Run history is disabled when Host is empty.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         int
	WriteTimeout time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// YouTubeConfig holds search provider settings
type YouTubeConfig struct {
	APIKey  string
	BaseURL string
}

// StorageConfig holds object storage container settings
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Region        string
	Container     string
	PublicBaseURL string
}

// MongoConfig holds document store settings
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// ToolsConfig holds paths and profiles of the external media tools
type ToolsConfig struct {
	YtDlpPath      string
	YtDlpCookies   string
	FFmpegPath     string
	FFprobePath    string
	MaxVideoHeight int
	PreviewCRF     int
}

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	writeTimeout, err := durationFromEnv("SERVER_WRITE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.Server.WriteTimeout = writeTimeout

	// Logging configuration
	cfg.Logging.Level = stringFromEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// API Key configuration (optional, protects mutating endpoints)
	cfg.APIKey = os.Getenv("API_KEY")

	// Search provider
	cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.YouTube.BaseURL = stringFromEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3")

	// Object storage
	cfg.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")
	cfg.Storage.AccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("STORAGE_SECRET_KEY")
	cfg.Storage.UseSSL = strings.EqualFold(os.Getenv("STORAGE_USE_SSL"), "true")
	cfg.Storage.Region = os.Getenv("STORAGE_REGION")
	cfg.Storage.Container = stringFromEnv("STORAGE_CONTAINER", "zynoflix-ott")
	cfg.Storage.PublicBaseURL = strings.TrimRight(os.Getenv("STORAGE_PUBLIC_BASE_URL"), "/")

	// Document store
	cfg.Mongo.URI = os.Getenv("MONGODB_URI")
	cfg.Mongo.Database = stringFromEnv("MONGODB_DATABASE", "ott")
	cfg.Mongo.Collection = stringFromEnv("MONGODB_COLLECTION", "videos")

	cfg.DefaultUserID = strings.TrimSpace(os.Getenv("DEFAULT_USER_ID"))
	cfg.WorkDir = stringFromEnv("WORK_DIR", "./tmp")

	// External tools
	cfg.Tools.YtDlpPath = stringFromEnv("YTDLP_PATH", "yt-dlp")
	cfg.Tools.YtDlpCookies = os.Getenv("YTDLP_COOKIES")
	cfg.Tools.FFmpegPath = stringFromEnv("FFMPEG_PATH", "ffmpeg")
	cfg.Tools.FFprobePath = stringFromEnv("FFPROBE_PATH", "ffprobe")

	maxHeight, err := intFromEnv("MAX_VIDEO_HEIGHT", 720)
	if err != nil {
		return nil, err
	}
	cfg.Tools.MaxVideoHeight = maxHeight

	crf, err := intFromEnv("PREVIEW_CRF", 28)
	if err != nil {
		return nil, err
	}
	cfg.Tools.PreviewCRF = crf

	// Run history database (optional)
	cfg.Database.Host = os.Getenv("DB_HOST")
	if cfg.Database.Host != "" {
		dbPort, err := intFromEnv("DB_PORT", 3306)
		if err != nil {
			return nil, err
		}
		cfg.Database.Port = dbPort
		cfg.Database.User = os.Getenv("DB_USER")
		cfg.Database.Password = os.Getenv("DB_PASSWORD")
		cfg.Database.DBName = os.Getenv("DB_NAME")
		if cfg.Database.User == "" || cfg.Database.DBName == "" {
			return nil, fmt.Errorf("DB_USER and DB_NAME are required when DB_HOST is set")
		}
	}

	return cfg, nil
}

// DSN returns the run history database connection string
func (c *Config) DSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// Warnings returns configuration problems that do not stop the process
// but degrade one of the pipeline stages.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.YouTube.APIKey == "" {
		warnings = append(warnings, "YOUTUBE_API_KEY is not set, search is unavailable")
	}
	if c.Storage.Endpoint == "" || c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		warnings = append(warnings, "object storage credentials are not set, publishing is unavailable")
	}
	if c.Mongo.URI == "" {
		warnings = append(warnings, "MONGODB_URI is not set, content records cannot be saved")
	}
	if c.DefaultUserID == "" {
		warnings = append(warnings, "DEFAULT_USER_ID is not set, every record gets a fresh owner id")
	} else if !objectIDPattern.MatchString(c.DefaultUserID) {
		warnings = append(warnings, fmt.Sprintf("DEFAULT_USER_ID %q is not a 24-hex identifier, every record gets a fresh owner id", c.DefaultUserID))
	}
	return warnings
}

func stringFromEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

// parseOrigins parses a comma-separated origin list, allowing all origins when empty
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}
