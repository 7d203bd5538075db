package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort int

	DefaultFeedURL  string
	FeedSourcesPath string

	QdrantHost string
	QdrantPort int

	EmbeddingURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	IngestLedgerPath string

	RedisAddr      string
	AnswerCacheTTL time.Duration

	HTTPTimeout time.Duration
}

// Load reads configuration from the environment once at startup.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	appPort, err := getEnvInt("APP_PORT", 8000)
	if err != nil {
		return nil, err
	}
	qdrantPort, err := getEnvInt("QDRANT_PORT", 6334)
	if err != nil {
		return nil, err
	}
	chunkSize, err := getEnvInt("CHUNK_SIZE", 700)
	if err != nil {
		return nil, err
	}
	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", 200)
	if err != nil {
		return nil, err
	}
	topK, err := getEnvInt("TOP_K", 3)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvInt("ANSWER_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := getEnvInt("HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	return &Config{
		AppPort:          appPort,
		DefaultFeedURL:   getEnv("DEFAULT_FEED_URL", "http://feeds.bbci.co.uk/news/rss.xml"),
		FeedSourcesPath:  getEnv("FEED_SOURCES_PATH", ""),
		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       qdrantPort,
		EmbeddingURL:     getEnv("EMBEDDING_URL", "http://localhost:8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		LLMModel:         getEnv("LLM_MODEL", "gpt-3.5-turbo"),
		ChunkSize:        chunkSize,
		ChunkOverlap:     chunkOverlap,
		TopK:             topK,
		IngestLedgerPath: getEnv("INGEST_LEDGER_PATH", "./data/ingest.db"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		AnswerCacheTTL:   time.Duration(cacheTTL) * time.Second,
		HTTPTimeout:      time.Duration(httpTimeout) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
