package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	if cfg.Kafka.RawTopic != "news-raw" {
		t.Fatalf("unexpected raw topic: %s", cfg.Kafka.RawTopic)
	}
	if cfg.Kafka.ConsumerGroup != "ai-processor-group" {
		t.Fatalf("unexpected consumer group: %s", cfg.Kafka.ConsumerGroup)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %s", cfg.Gemini.Model)
	}
	if cfg.Pipeline.SubtaskTimeout != Duration(60*time.Second) {
		t.Fatalf("unexpected subtask timeout: %d", cfg.Pipeline.SubtaskTimeout)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  consumerGroup: custom-group
gemini:
  apiKey: from-file
pipeline:
  subtaskTimeout: 15s
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env-wins")
	t.Setenv(geminiAPIKeyEnv, "from-env")

	cfg := Load()

	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "kafka-1:9092" {
		t.Fatalf("file brokers not applied: %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.ConsumerGroup != "custom-group" {
		t.Fatalf("file consumer group not applied: %s", cfg.Kafka.ConsumerGroup)
	}
	if cfg.Kafka.RawTopic != "news-raw" {
		t.Fatalf("defaults should survive a partial file: %s", cfg.Kafka.RawTopic)
	}
	if cfg.Pipeline.SubtaskTimeout != Duration(15*time.Second) {
		t.Fatalf("file timeout not applied: %d", cfg.Pipeline.SubtaskTimeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("file logging settings not applied: %+v", cfg.Logging)
	}

	// env overrides beat file values
	if cfg.Database.DSN != "postgres://env-wins" {
		t.Fatalf("env DSN not applied: %s", cfg.Database.DSN)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Fatalf("env API key not applied: %s", cfg.Gemini.APIKey)
	}
}

func TestGeminiKeyIsSharedWithFactCheck(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(geminiAPIKeyEnv, "shared-key")

	cfg := Load()
	if cfg.FactCheck.APIKey != "shared-key" {
		t.Fatalf("factcheck should reuse the Google API key: %s", cfg.FactCheck.APIKey)
	}

	t.Setenv(factCheckKeyEnv, "dedicated-key")
	cfg = Load()
	if cfg.FactCheck.APIKey != "dedicated-key" {
		t.Fatalf("dedicated key must win: %s", cfg.FactCheck.APIKey)
	}
}

func TestKafkaBrokersEnvOverride(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(kafkaBrokersEnv, "a:9092, b:9092")

	cfg := Load()
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("broker list not split and trimmed: %v", cfg.Kafka.Brokers)
	}
}
