package conversation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voice-chatter/internal/llm"
	"voice-chatter/internal/session"
	"voice-chatter/internal/storage"
	"voice-chatter/internal/upstream"
)

const opCompletion = "chat completion"

// Input is one user utterance entering the conversation.
type Input struct {
	Text     string
	UserID   int64
	Modality string
}

// Engine runs the turn protocol of a chat session: user turn, completion
// over the whole history, assistant turn.
type Engine struct {
	client       llm.Client
	systemPrompt string
	recorder     storage.Recorder
	log          *zap.Logger
	now          func() time.Time
}

// New creates an engine. systemPrompt and recorder are optional.
func New(client llm.Client, systemPrompt string, recorder storage.Recorder, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		client:       client,
		systemPrompt: systemPrompt,
		recorder:     recorder,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Converse handles a text message.
func (e *Engine) Converse(ctx context.Context, s *session.Session, text string) (string, error) {
	return e.ConverseFrom(ctx, s, Input{Text: text, Modality: storage.ModalityText})
}

// ConverseFrom appends the user turn, completes over the full history and
// appends the assistant turn. The session stays locked for the whole
// exchange so concurrent calls on one chat never interleave.
// When the completion fails the user turn is removed again and the history
// is left as it was before the call.
func (e *Engine) ConverseFrom(ctx context.Context, s *session.Session, in Input) (string, error) {
	s.Lock()
	s.AppendLocked(session.Turn{Role: session.RoleUser, Content: in.Text})

	resp, err := e.client.Generate(ctx, e.buildContext(s.TurnsLocked()))
	if err != nil {
		s.DropLastLocked(session.RoleUser)
		s.Unlock()
		return "", upstream.Wrap(opCompletion, err)
	}

	s.AppendLocked(session.Turn{Role: session.RoleAssistant, Content: resp.Content})
	s.Unlock()

	e.log.Debug("completion done",
		zap.String("chat_id", s.ChatID()),
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("completion_tokens", resp.CompletionTokens),
		zap.Int("total_tokens", resp.TotalTokens),
	)
	e.record(s.ChatID(), in, resp.Content)
	return resp.Content, nil
}

func (e *Engine) buildContext(turns []session.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(turns)+1)
	if e.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: session.RoleSystem, Content: e.systemPrompt})
	}
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}

func (e *Engine) record(chatID string, in Input, reply string) {
	if e.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         e.now(),
		ChatID:            chatID,
		UserID:            in.UserID,
		Modality:          in.Modality,
		UserMessage:       in.Text,
		AssistantResponse: reply,
	}
	if err := e.recorder.AppendInteraction(ev); err != nil {
		e.log.Warn("failed to record interaction", zap.String("chat_id", chatID), zap.Error(err))
	}
}
