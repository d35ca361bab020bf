package llm

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"voice-chatter/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates completion clients for the configured provider.
type Factory struct {
	OpenAI           *openai.Client
	OpenAIModel      string
	YandexOAuthToken string
	YandexFolderID   string
}

func NewFactory(cfg *config.Config, api *openai.Client) *Factory {
	return &Factory{
		OpenAI:           api,
		OpenAIModel:      cfg.OpenAIModel,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		if f.OpenAI == nil {
			return nil, fmt.Errorf("openai client is not configured")
		}
		return NewOpenAI(f.OpenAI, f.OpenAIModel), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
