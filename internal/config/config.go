package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the rating API. The OpenAI
// key is the only credential; it is read from the environment and passed
// explicitly into the gateway constructor rather than consulted as ambient
// state.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	OpenAIAPIKey   string
	OpenAIModel    string
	OllamaBaseURL  string
	OllamaModel    string
	RequestTimeout time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration from environment variables and an optional .env
// file. Variables use the RATER_ prefix, e.g. RATER_OPENAI_API_KEY.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("RATER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "IELTS Writing Rater")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2")
	v.SetDefault("request.timeout", "2m")

	timeoutString := v.GetString("request.timeout")
	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid request timeout: %w", err)
	}

	return Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		OpenAIAPIKey:   v.GetString("openai.api_key"),
		OpenAIModel:    v.GetString("openai.model"),
		OllamaBaseURL:  v.GetString("ollama.base_url"),
		OllamaModel:    v.GetString("ollama.model"),
		RequestTimeout: timeout,
	}, nil
}
