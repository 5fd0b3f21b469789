package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "test-key", Model: "multilingual-e5-large"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingEmbeddingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_TopKBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.DefaultTopK = 50
	cfg.Retrieval.MaxTopK = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_top_k > max_top_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Retrieval.DefaultTopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Retrieval.DefaultTopK)
	}
	if cfg.Retrieval.LawsIndex != "laws-names" || cfg.Retrieval.JudgmentsIndex != "judgments-names" {
		t.Errorf("unexpected index names: %q %q", cfg.Retrieval.LawsIndex, cfg.Retrieval.JudgmentsIndex)
	}
	if cfg.Retrieval.ExplainConcurrency != 5 {
		t.Errorf("explain concurrency = %d, want 5", cfg.Retrieval.ExplainConcurrency)
	}
	if cfg.LLM.Model != "gpt-3.5-turbo" {
		t.Errorf("llm model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("llm temperature = %f", cfg.LLM.Temperature)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("LAWDEX_TEST_KEY", "secret")
	defer os.Unsetenv("LAWDEX_TEST_KEY")

	in := []byte("api_key: ${LAWDEX_TEST_KEY}\nbase_url: ${LAWDEX_TEST_MISSING:-https://api.openai.com/v1}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nbase_url: https://api.openai.com/v1\n" {
		t.Errorf("unexpected expansion:\n%s", out)
	}
}
