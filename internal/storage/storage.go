package storage

import "time"

const (
	ModalityText  = "text"
	ModalityVoice = "voice"
)

// Event is one completed exchange: the user's input and the assistant's reply.
// Events are only written; sessions are never rebuilt from them.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	ChatID            string    `json:"chat_id"`
	UserID            int64     `json:"user_id,omitempty"`
	Modality          string    `json:"modality"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
}

// Recorder persists interaction events. The log is write-only for the bot.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
}
