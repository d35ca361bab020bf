package speech

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// WhisperClient transcribes audio files with the OpenAI audio API.
type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClient(api *openai.Client) *WhisperClient {
	return &WhisperClient{client: api, model: openai.Whisper1}
}

func (c *WhisperClient) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return resp.Text, nil
}
