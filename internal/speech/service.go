package speech

import (
	"context"

	"voice-chatter/internal/upstream"
)

// Service bundles transcription and optional speech synthesis.
type Service struct {
	stt STTClient
	tts TTSClient
}

// NewService creates the speech service; tts may be nil to disable spoken replies.
func NewService(stt STTClient, tts TTSClient) *Service {
	return &Service{stt: stt, tts: tts}
}

func (s *Service) Transcribe(ctx context.Context, filePath string) (string, error) {
	text, err := s.stt.Transcribe(ctx, filePath)
	return text, upstream.Wrap("transcription", err)
}

func (s *Service) CanSynthesize() bool { return s.tts != nil }

func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	audio, err := s.tts.Synthesize(ctx, text)
	return audio, upstream.Wrap("speech synthesis", err)
}
