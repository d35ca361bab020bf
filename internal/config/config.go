package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string   `env:"TELEGRAM_API_KEY"`
	AllowedChatIDs   []string `env:"ALLOWED_TELEGRAM_IDS" envSeparator:","`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Speech synthesis, spoken replies are disabled when VoiceAPI is empty
	VoiceAPI     string `env:"VOICE_API"`
	TTSSpeakerID string `env:"TTS_SPEAKER_ID" envDefault:"p225"`

	DevLogging       bool   `env:"DEV_LOGGING" envDefault:"false"`
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Transient media
	ImageDir             string        `env:"IMAGE_DIR" envDefault:"images"`
	MediaDir             string        `env:"MEDIA_DIR" envDefault:"media"`
	FFmpegPath           string        `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	MediaCleanupSchedule string        `env:"MEDIA_CLEANUP_SCHEDULE" envDefault:"0 4 * * *"`
	MediaMaxAge          time.Duration `env:"MEDIA_MAX_AGE" envDefault:"24h"`

	// Storage
	LogFilePath       string `env:"LOG_FILE_PATH" envDefault:"data/interactions.jsonl"`
	AllowlistFilePath string `env:"ALLOWLIST_FILE_PATH"`
}

// MissingError reports required configuration values that are absent.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Vars, ", ")
}

// Load parses the environment and validates required values.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.AllowedChatIDs = normalizeIDs(cfg.AllowedChatIDs)
	cfg.LLMProvider = LLMProvider(strings.ToLower(strings.TrimSpace(string(cfg.LLMProvider))))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on values the bot cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.TelegramBotToken == "" {
		missing = append(missing, "TELEGRAM_API_KEY")
	}
	if len(c.AllowedChatIDs) == 0 && c.AllowlistFilePath == "" {
		missing = append(missing, "ALLOWED_TELEGRAM_IDS")
	}
	// images and voice transcription go through OpenAI whatever the chat provider is
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIModel == "" {
			missing = append(missing, "OPENAI_MODEL")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" {
			missing = append(missing, "YANDEX_OAUTH_TOKEN")
		}
		if c.YandexFolderID == "" {
			missing = append(missing, "YANDEX_FOLDER_ID")
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}
	return nil
}

// IsMissing reports whether err is a configuration-missing failure.
func IsMissing(err error) bool {
	var me *MissingError
	return errors.As(err, &me)
}

func (c *Config) VoiceRepliesEnabled() bool { return c.VoiceAPI != "" }

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
