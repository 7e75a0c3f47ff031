package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port       string
	WebhookURL string
	LogLevel   string
	LogPretty  bool

	TelegramToken    string
	AllowedGroupIDs  []int64
	BotPrivacyModeOn bool

	LLMProvider string

	AzureAPIKey     string
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIVersion string

	GeminiAPIKey string
	GeminiModel  string

	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	Model ModelSettings
}

// ModelSettings are read from the optional YAML file.
type ModelSettings struct {
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

func DefaultModelSettings() ModelSettings {
	return ModelSettings{Temperature: 0.5, MaxTokens: 500, Timeout: 60 * time.Second}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present), the environment and the YAML model settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	model, err := LoadModelSettings(getEnv("CONFIG_FILE", "config.yml"))
	if err != nil {
		return nil, err
	}

	groups, err := ParseGroupIDs(os.Getenv("ALLOWED_GROUP_IDS"))
	if err != nil {
		return nil, err
	}

	privacy, err := parseBool("BOT_PRIVACY_MODE_ON", false)
	if err != nil {
		return nil, err
	}
	pretty, err := parseBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	ttl := 7 * 24 * time.Hour
	if v := getEnv("CACHE_TTL", ""); v != "" {
		if ttl, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("bad CACHE_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("bad CACHE_TTL %q: must be positive", v)
		}
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		WebhookURL: getEnv("WEBHOOK_URL", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogPretty:  pretty,

		TelegramToken:    getEnv("TELEGRAM_TOKEN", ""),
		AllowedGroupIDs:  groups,
		BotPrivacyModeOn: privacy,

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", "azure")),

		AzureAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", "https://poc-openai-test.openai.azure.com/"),
		AzureDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o-mini"),
		AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-10-01-preview"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		CacheTTL:    ttl,

		Model: model,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("missing required env TELEGRAM_TOKEN"))
	}
	switch c.LLMProvider {
	case "azure":
		if c.AzureAPIKey == "" {
			errs = append(errs, errors.New("missing required env AZURE_OPENAI_API_KEY"))
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("missing required env GEMINI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q (azure|gemini)", c.LLMProvider))
	}
	return errors.Join(errs...)
}

// LoadModelSettings reads the YAML file at path; a missing file yields defaults.
func LoadModelSettings(path string) (ModelSettings, error) {
	s := DefaultModelSettings()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	var file struct {
		Model *ModelSettings `yaml:"model_settings"`
	}
	file.Model = &s
	if err := yaml.Unmarshal(b, &file); err != nil {
		return DefaultModelSettings(), fmt.Errorf("bad config %s: %w", path, err)
	}
	return s, nil
}

// ParseGroupIDs parses a comma-separated list of chat ids.
func ParseGroupIDs(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ALLOWED_GROUP_IDS entry %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseBool(k string, def bool) (bool, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("bad %s %q: %w", k, v, err)
	}
	return b, nil
}
