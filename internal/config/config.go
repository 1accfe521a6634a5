package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	Env   string
	Debug bool

	DatabaseURL     string
	GeminiAPIKey    string
	AnthropicAPIKey string

	// Model ids per pipeline stage.
	RankModel   string
	BoardModel  string
	ClaudeModel string

	FeedsPath  string
	DataDir    string
	PushcutURL string

	Archive ArchiveConfig
}

// ArchiveConfig configures the S3-compatible briefing archive.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// UsageLedgerPath is where the LLM usage ledger lives under the data dir.
func (c *Config) UsageLedgerPath() string {
	return filepath.Join(c.DataDir, "usage_ledger.json")
}

// StorePath is the JSON fallback store location under the data dir.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "news.json")
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8089", "server port")
	feeds := flag.String("feeds", "feeds.yaml", "feed catalog path")
	dataDir := flag.String("data", "data", "data directory")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	if v := os.Getenv("FEEDS_PATH"); v != "" {
		*feeds = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		*dataDir = v
	}

	return &Config{
		Port:            *port,
		Env:             env,
		Debug:           envBool("DEBUG", false),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		RankModel:       firstNonEmpty(os.Getenv("RANK_MODEL"), "gemini-2.5-flash"),
		BoardModel:      firstNonEmpty(os.Getenv("BOARD_MODEL"), "gemini-2.5-pro"),
		ClaudeModel:     firstNonEmpty(os.Getenv("CLAUDE_MODEL"), "claude-sonnet-4-0"),
		FeedsPath:       *feeds,
		DataDir:         *dataDir,
		PushcutURL:      strings.TrimSpace(os.Getenv("PUSHCUT_WEBHOOK_URL")),
		Archive:         loadArchiveConfig(env),
	}, nil
}

func loadArchiveConfig(env string) ArchiveConfig {
	endpoint := resolveArchiveEndpoint(env)
	return ArchiveConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")), "gideon-briefings"),
		UseSSL:    resolveArchiveUseSSL(env),
	}
}

func resolveArchiveEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ARCHIVE_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
}

func resolveArchiveUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
