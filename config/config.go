package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP    HTTP
		Log     Log
		PG      PG
		Ollama  Ollama
		Scan    Scan
		Search  Search
		Swagger Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT" envDefault:"8080"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX" envDefault:"2"`
		URL     string `env:"PG_URL,required"`
	}

	Ollama struct {
		URL         string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
		VisionModel string        `env:"OLLAMA_VISION_MODEL" envDefault:"llava:latest"`
		EmbedModel  string        `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
		Timeout     time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"120s"`
		MaxRetries  int           `env:"OLLAMA_MAX_RETRIES" envDefault:"3"`
	}

	Scan struct {
		Workers        int           `env:"SCAN_WORKERS" envDefault:"0"` // 0 = NumCPU
		MaxFileSize    int64         `env:"SCAN_MAX_FILE_SIZE" envDefault:"52428800"`
		RescanInterval time.Duration `env:"RESCAN_INTERVAL" envDefault:"0"` // 0 = disabled
	}

	Search struct {
		PerPage             int     `env:"SEARCH_PER_PAGE" envDefault:"20"`
		SimilarityThreshold float64 `env:"SEARCH_SIMILARITY_THRESHOLD" envDefault:"0.5"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
