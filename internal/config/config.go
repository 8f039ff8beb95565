package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates settings for the widget service.
type Config struct {
	Server    ServerConfig
	Assistant AssistantConfig
	Stub      StubConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	assistantCfg, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	stub, err := loadStubConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Assistant: assistantCfg, Stub: stub}, nil
}

// ServerConfig describes the widget HTTP server.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	origins := []string{"*"}
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return ServerConfig{Addr: addr, AllowedOrigins: origins}, nil
}

// AssistantConfig describes the remote assistant endpoint.
type AssistantConfig struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each transport round-trip. Zero disables the bound,
	// which leaves a hung request pinning the conversation until it dies.
	Timeout time.Duration
	// UserID is the externally supplied user identity, when known.
	UserID string
}

func loadAssistantConfig() (AssistantConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("ASSISTANT_TIMEOUT_SECONDS"); err != nil {
		return AssistantConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return AssistantConfig{}, fmt.Errorf("invalid ASSISTANT_TIMEOUT_SECONDS value: %d", *override)
		}
		timeoutSeconds = *override
	}

	return AssistantConfig{
		BaseURL: getEnvOrDefault("ASSISTANT_URL", "http://localhost:8000"),
		APIKey:  strings.TrimSpace(os.Getenv("ASSISTANT_API_KEY")),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
		UserID:  strings.TrimSpace(os.Getenv("WIDGET_USER_ID")),
	}, nil
}

// StubConfig describes the development assistant stub, including the
// optional Ark-backed model for free-text replies.
type StubConfig struct {
	Addr        string
	APIKey      string
	ArkAPIKey   string
	ArkModel    string
	ArkBaseURL  string
	ArkRegion   string
	Temperature *float64
}

func loadStubConfig() (StubConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return StubConfig{}, err
	}

	port := getEnvOrDefault("STUB_PORT", "8000")
	addr := port
	if !strings.Contains(port, ":") {
		addr = ":" + port
	}

	return StubConfig{
		Addr:        addr,
		APIKey:      strings.TrimSpace(os.Getenv("ASSISTANT_API_KEY")),
		ArkAPIKey:   strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkModel:    strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:  getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:   getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
	}, nil
}

// ModelEnabled reports whether Ark credentials are present.
func (c StubConfig) ModelEnabled() bool {
	return c.ArkAPIKey != "" && c.ArkModel != ""
}

// NewChatModel creates the Ark chat model for the stub's free-text path.
func (c StubConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ModelEnabled() {
		return nil, fmt.Errorf("ARK_API_KEY and ARK_MODEL are required for the model-backed stub")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		Model:       c.ArkModel,
		Temperature: temperature,
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
