package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Data      DataConfig      `json:"data"`
	Server    ServerConfig    `json:"server"`
	Model     ModelConfig     `json:"model"`
	Knowledge KnowledgeConfig `json:"knowledge"`
	FollowUp  FollowUpConfig  `json:"follow_up"`
	Log       LogConfig       `json:"log"`
}

type DataConfig struct {
	Dir string `json:"dir" env:"MINDWELL_DATA_DIR"`
}

type ServerConfig struct {
	Host string `json:"host" env:"MINDWELL_SERVER_HOST"`
	Port int    `json:"port" env:"MINDWELL_SERVER_PORT"`
}

// ModelConfig points the model tier at an OpenAI-compatible
// chat-completions endpoint (a local Ollama-style server or a hosted API).
// An empty APIBase disables the model tier entirely.
type ModelConfig struct {
	APIBase      string  `json:"api_base" env:"MINDWELL_MODEL_API_BASE"`
	APIKey       string  `json:"api_key" env:"MINDWELL_MODEL_API_KEY"`
	Name         string  `json:"name" env:"MINDWELL_MODEL_NAME"`
	MaxNewTokens int     `json:"max_new_tokens" env:"MINDWELL_MODEL_MAX_NEW_TOKENS"`
	Temperature  float64 `json:"temperature" env:"MINDWELL_MODEL_TEMPERATURE"`
	TopP         float64 `json:"top_p" env:"MINDWELL_MODEL_TOP_P"`
}

type KnowledgeConfig struct {
	TopK         int `json:"top_k" env:"MINDWELL_KNOWLEDGE_TOP_K"`
	ChunkSize    int `json:"chunk_size" env:"MINDWELL_KNOWLEDGE_CHUNK_SIZE"`
	ChunkOverlap int `json:"chunk_overlap" env:"MINDWELL_KNOWLEDGE_CHUNK_OVERLAP"`
}

// FollowUpConfig schedules the next check-in stamped on the profile after
// every chat turn. Cron is a standard five-field expression.
type FollowUpConfig struct {
	Enabled bool   `json:"enabled" env:"MINDWELL_FOLLOW_UP_ENABLED"`
	Cron    string `json:"cron" env:"MINDWELL_FOLLOW_UP_CRON"`
}

type LogConfig struct {
	File  string `json:"file" env:"MINDWELL_LOG_FILE"`
	Level string `json:"level" env:"MINDWELL_LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "~/.mindwell/data",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Model: ModelConfig{
			APIBase:      "",
			APIKey:       "",
			Name:         "mistralai/mistral-7b-instruct",
			MaxNewTokens: 512,
			Temperature:  0.7,
			TopP:         0.9,
		},
		Knowledge: KnowledgeConfig{
			TopK:         2,
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		FollowUp: FollowUpConfig{
			Enabled: true,
			Cron:    "0 9 * * *", // daily morning check-in
		},
		Log: LogConfig{
			File:  "app.log",
			Level: "info",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// DataDir returns the data directory with a leading ~ expanded.
func (c *Config) DataDir() string {
	return expandHome(c.Data.Dir)
}

// ModelEnabled reports whether the model tier is configured at all.
// Whether the endpoint actually answers is probed once at startup.
func (c *Config) ModelEnabled() bool {
	return c.Model.APIBase != ""
}

func (c *Config) ProfilePath() string {
	return filepath.Join(c.DataDir(), "profile.json")
}

func (c *Config) ResourcesPath() string {
	return filepath.Join(c.DataDir(), "resources.json")
}

func (c *Config) KnowledgeDir() string {
	return filepath.Join(c.DataDir(), "knowledge")
}

func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir(), "state", "knowledge.db")
}

func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.DataDir(), c.Log.File)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
