package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port           string
	DBPath         string
	OllamaURL      string
	OpenAIEndpoint string
	OpenAIKey      string
	RAGConfigPath  string
	StreamDelayMS  int
}

// RAGConfig holds the retrieval knobs. Everything has a default; the
// optional yaml file overrides field by field.
type RAGConfig struct {
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	KRatio       float64 `yaml:"k_ratio"`
	KFloor       int     `yaml:"k_floor"`
	KCeil        int     `yaml:"k_ceil"`
	MinScore     float64 `yaml:"min_score"`
	Concurrency  int     `yaml:"concurrency"`
	EmbedBatch   int     `yaml:"embed_batch"`
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:           get("PORT", "8080"),
		DBPath:         get("DB_PATH", "sheetchat.db"),
		OllamaURL:      get("OLLAMA_URL", "http://localhost:11434"),
		OpenAIEndpoint: get("OPENAI_ENDPOINT", "https://api.openai.com"),
		OpenAIKey:      get("OPENAI_API_KEY", ""),
		RAGConfigPath:  get("RAG_CONFIG", "rag.yaml"),
		StreamDelayMS:  50,
	}
	log.Printf("[cfg] port=%s db=%s ollama=%s openai_key_set=%t",
		cfg.Port, cfg.DBPath, cfg.OllamaURL, cfg.OpenAIKey != "")
	return cfg
}

func defaultRAG() RAGConfig {
	return RAGConfig{
		ChunkSize:    2000,
		ChunkOverlap: 500,
		KRatio:       0.2,
		KFloor:       20,
		KCeil:        100,
		MinScore:     0.7,
		Concurrency:  5,
		EmbedBatch:   32,
	}
}

// LoadRAG reads the retrieval knobs from a yaml file. A missing file just
// means defaults; a malformed one is an error.
func LoadRAG(path string) (RAGConfig, error) {
	cfg := defaultRAG()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	var in RAGConfig
	if err := yaml.Unmarshal(data, &in); err != nil {
		return cfg, err
	}
	if in.ChunkSize > 0 {
		cfg.ChunkSize = in.ChunkSize
	}
	if in.ChunkOverlap > 0 {
		cfg.ChunkOverlap = in.ChunkOverlap
	}
	if in.KRatio > 0 {
		cfg.KRatio = in.KRatio
	}
	if in.KFloor > 0 {
		cfg.KFloor = in.KFloor
	}
	if in.KCeil > 0 {
		cfg.KCeil = in.KCeil
	}
	if in.MinScore > 0 {
		cfg.MinScore = in.MinScore
	}
	if in.Concurrency > 0 {
		cfg.Concurrency = in.Concurrency
	}
	if in.EmbedBatch > 0 {
		cfg.EmbedBatch = in.EmbedBatch
	}
	return cfg, nil
}
