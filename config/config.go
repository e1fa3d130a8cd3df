package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Servers      `yaml:"server"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Chroma ChromaConfig `yaml:"chroma"`
	Minio  MinioConfig  `yaml:"minio"`
	Ingest IngestConfig `yaml:"ingest"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

// Servers holds the listen ports of the two HTTP services.
type Servers struct {
	SearchPort int `yaml:"search_port"`
	UploadPort int `yaml:"upload_port"`
}

type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ChromaConfig struct {
	URL            string `yaml:"url"`
	Collection     string `yaml:"collection"`
	Dimension      int    `yaml:"dimension"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type MinioConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type IngestConfig struct {
	IntakeDir    string `yaml:"intake_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	DebounceMs   int    `yaml:"write_debounce_ms"`
	MaxJobs      int    `yaml:"max_jobs"`
}

type SearchConfig struct {
	DefaultResults int `yaml:"default_results"`
	MaxResults     int `yaml:"max_results"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv overrides credentials and endpoints from the environment so
// secrets never need to live in the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("CHROMA_URL"); v != "" {
		c.Chroma.URL = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.SearchPort == 0 {
		c.Server.SearchPort = 8080
	}
	if c.Server.UploadPort == 0 {
		c.Server.UploadPort = 8081
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.TimeoutSeconds == 0 {
		c.OpenAI.TimeoutSeconds = 60
	}
	if c.Chroma.URL == "" {
		c.Chroma.URL = "http://localhost:8000"
	}
	if c.Chroma.Collection == "" {
		c.Chroma.Collection = "contratos"
	}
	if c.Chroma.Dimension == 0 {
		c.Chroma.Dimension = 1536
	}
	if c.Chroma.TimeoutSeconds == 0 {
		c.Chroma.TimeoutSeconds = 15
	}
	if c.Ingest.IntakeDir == "" {
		c.Ingest.IntakeDir = "./contratos"
	}
	if c.Ingest.ChunkSize == 0 {
		c.Ingest.ChunkSize = 1000
	}
	if c.Ingest.ChunkOverlap == 0 {
		c.Ingest.ChunkOverlap = 200
	}
	if c.Ingest.DebounceMs == 0 {
		c.Ingest.DebounceMs = 500
	}
	if c.Ingest.MaxJobs == 0 {
		c.Ingest.MaxJobs = 1000
	}
	if c.Search.DefaultResults == 0 {
		c.Search.DefaultResults = 5
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 20
	}
}
