package common

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "LEGAL_SUMMARIZER_CONFIG"

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Ingest   IngestConfig   `yaml:"ingest"`
	OCR      OCRConfig      `yaml:"ocr"`
	STT      STTConfig      `yaml:"stt"`
	NER      NERConfig      `yaml:"ner"`
	Queue    QueueConfig    `yaml:"queue"`
}

// DatabaseConfig holds database-related configuration. A postgres:// DSN
// selects the pgx store; anything else is treated as a SQLite path.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"maxConns"`
	MinConns        int32         `yaml:"minConns"`
	MaxConnLifetime time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime time.Duration `yaml:"maxConnIdleTime"`
	DialTimeout     time.Duration `yaml:"dialTimeout"`
	HealthTimeout   time.Duration `yaml:"healthTimeout"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"maxUploadSize"`
}

// IngestConfig holds upload and drop-directory configuration
type IngestConfig struct {
	UploadDir string `yaml:"uploadDir"`
	WatchDir  string `yaml:"watchDir"` // empty disables the watcher
}

// OCRConfig holds OCR collaborator configuration
type OCRConfig struct {
	Pdftotext string `yaml:"pdftotext"`
	Pdftoppm  string `yaml:"pdftoppm"`
	Tesseract string `yaml:"tesseract"`
	Language  string `yaml:"language"`
	DPI       int    `yaml:"dpi"`
	PSM       int    `yaml:"psm"`
	WorkDir   string `yaml:"workDir"`

	// CommandTimeout bounds each poppler/tesseract invocation.
	CommandTimeout time.Duration `yaml:"commandTimeout"`
}

// STTConfig holds speech-to-text collaborator configuration
type STTConfig struct {
	Binary    string `yaml:"binary"`
	ModelPath string `yaml:"modelPath"`
	Language  string `yaml:"language"`

	// CommandTimeout bounds each whisper invocation.
	CommandTimeout time.Duration `yaml:"commandTimeout"`
}

// NERConfig holds the optional entity-model endpoint. Empty URL means no
// NER collaborator; entity categories then come from patterns only.
type NERConfig struct {
	InferenceURL string        `yaml:"inferenceUrl"`
	Timeout      time.Duration `yaml:"timeout"`
}

// QueueConfig holds lifecycle-controller configuration
type QueueConfig struct {
	Size      int           `yaml:"size"`
	IdleDelay time.Duration `yaml:"idleDelay"`
}

// LoadConfig reads YAML configuration (if LEGAL_SUMMARIZER_CONFIG points at a
// file) and applies environment overrides on top of defaults.
func LoadConfig() *Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("config: cannot read file, falling back to defaults", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			slog.Warn("config: cannot parse file, falling back to defaults", "path", path, "error", err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             "legal_summarizer.db",
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
			HealthTimeout:   3 * time.Second,
		},
		Server: ServerConfig{
			Addr:          ":8000",
			MaxUploadSize: 50 << 20,
		},
		Ingest: IngestConfig{
			UploadDir: "uploads",
		},
		OCR: OCRConfig{
			Pdftotext: "pdftotext",
			Pdftoppm:  "pdftoppm",
			Tesseract: "tesseract",
			Language:  "eng",
			DPI:       300,
			PSM:       6,
			WorkDir:   "./tmp",

			CommandTimeout: 2 * time.Minute,
		},
		STT: STTConfig{
			Binary:   "whisper-cli",
			Language: "en",

			CommandTimeout: 5 * time.Minute,
		},
		NER: NERConfig{
			Timeout: 30 * time.Second,
		},
		Queue: QueueConfig{
			Size:      256,
			IdleDelay: 500 * time.Millisecond,
		},
	}
}

func (c *Config) applyEnvOverrides() {
	c.Database.DSN = getEnv("DB_URL", c.Database.DSN)
	c.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Database.MinConns)
	c.Server.Addr = getEnv("HTTP_ADDR", c.Server.Addr)
	c.Ingest.UploadDir = getEnv("UPLOAD_DIR", c.Ingest.UploadDir)
	c.Ingest.WatchDir = getEnv("WATCH_DIR", c.Ingest.WatchDir)
	c.OCR.Tesseract = getEnv("TESSERACT_BIN", c.OCR.Tesseract)
	c.OCR.Language = getEnv("OCR_LANGUAGE", c.OCR.Language)
	c.STT.Binary = getEnv("WHISPER_BIN", c.STT.Binary)
	c.STT.ModelPath = getEnv("WHISPER_MODEL", c.STT.ModelPath)
	c.STT.Language = getEnv("STT_LANGUAGE", c.STT.Language)
	c.NER.InferenceURL = getEnv("NER_INFERENCE_URL", c.NER.InferenceURL)
	c.Queue.IdleDelay = getEnvAsDuration("QUEUE_IDLE_DELAY", c.Queue.IdleDelay)
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Ingest.UploadDir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOAD_DIR is required", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
