package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is resolved in three layers: built-in defaults, then an optional
// TOML file (AGRICHAT_CONFIG), then environment variables.
type Config struct {
	Port string `toml:"port"`

	// StorageBackend is "file", "memory" or "sqlite". All of them are
	// local; there is deliberately no remote backend.
	StorageBackend string `toml:"storage_backend"`
	DataDir        string `toml:"data_dir"`

	UseMockLLM   bool   `toml:"use_mock_llm"`
	GCPProjectID string `toml:"gcp_project"`
	GCPLocation  string `toml:"gcp_location"`
	ModelName    string `toml:"model_name"`

	// DetachAfterAnswer controls one-shot grounding: when true, an
	// attached document is detached after the first answered question.
	DetachAfterAnswer bool `toml:"detach_after_answer"`

	// InboxDir, when set, is watched for dropped PDF/DOCX files which are
	// attached through the normal upload path.
	InboxDir string `toml:"inbox_dir"`
}

func Default() Config {
	return Config{
		Port:              "8080",
		StorageBackend:    "file",
		DataDir:           defaultDataDir(),
		UseMockLLM:        true,
		GCPLocation:       "us-central1",
		ModelName:         "gemini-2.5-flash",
		DetachAfterAnswer: true,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agrichat"
	}
	return filepath.Join(home, ".agrichat")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load builds the config: defaults, then the TOML file if one is named,
// then env vars on top.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("AGRICHAT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("AGRICHAT_PORT", cfg.Port)
	cfg.StorageBackend = getEnv("AGRICHAT_STORAGE_BACKEND", cfg.StorageBackend)
	cfg.DataDir = getEnv("AGRICHAT_DATA_DIR", cfg.DataDir)
	cfg.UseMockLLM = getBoolEnv("AGRICHAT_USE_MOCK_LLM", cfg.UseMockLLM)
	cfg.GCPProjectID = getEnv("AGRICHAT_GCP_PROJECT", cfg.GCPProjectID)
	cfg.GCPLocation = getEnv("AGRICHAT_GCP_LOCATION", cfg.GCPLocation)
	cfg.ModelName = getEnv("AGRICHAT_MODEL_NAME", cfg.ModelName)
	cfg.DetachAfterAnswer = getBoolEnv("AGRICHAT_DETACH_AFTER_ANSWER", cfg.DetachAfterAnswer)
	cfg.InboxDir = getEnv("AGRICHAT_INBOX_DIR", cfg.InboxDir)

	switch cfg.StorageBackend {
	case "file", "memory", "sqlite":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if !cfg.UseMockLLM && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("AGRICHAT_GCP_PROJECT must be set when the mock LLM is disabled")
	}

	return &cfg, nil
}
