package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"voice-chatter/internal/auth"
	"voice-chatter/internal/conversation"
	"voice-chatter/internal/imagegen"
	"voice-chatter/internal/session"
	"voice-chatter/internal/storage"
	"voice-chatter/internal/upstream"
)

const (
	cmdStart = "start"
	cmdReset = "reset"
	cmdHelp  = "help"
)

const (
	startText       = "Ask your question in text or send a voice message."
	resetText       = "Context cleared."
	helpText        = "Send text or a voice message to chat.\n/image <description> - generate a picture\n/start, /reset - forget the conversation"
	imageUsageText  = "Usage: /image <description>"
	notHeardText    = "Sorry, I could not recognize any speech."
	unavailableText = "This feature is not available."
	failureText     = "Sorry, something went wrong."
)

// handleMessage is the single top-level handler: every failure of an event ends here.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("handler panic", zap.Int64("chat_id", msg.Chat.ID), zap.Any("panic", r))
		}
	}()
	if err := b.dispatch(ctx, msg); err != nil {
		b.handleError(msg, err)
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) error {
	sess, err := b.lookupSession(chatKey(msg.Chat.ID))
	if err != nil {
		return err
	}
	if err := b.gate.Check(sess); err != nil {
		return err
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case cmdStart:
			sess.Reset()
			return b.sendText(msg.Chat.ID, startText)
		case cmdReset:
			sess.Reset()
			return b.sendText(msg.Chat.ID, resetText)
		case cmdHelp:
			return b.sendText(msg.Chat.ID, helpText)
		}
	}

	switch {
	case msg.Voice != nil:
		return b.handleVoice(ctx, sess, msg)
	case msg.Text != "":
		return b.handleText(ctx, sess, msg)
	}
	return nil
}

// lookupSession returns the chat's session. Chats that are neither known nor listed
// are rejected before a session is created for them.
func (b *Bot) lookupSession(key string) (*session.Session, error) {
	if sess, ok := b.store.Lookup(key); ok {
		return sess, nil
	}
	if !b.gate.IsListed(key) {
		return nil, &auth.AccessDeniedError{ChatID: key}
	}
	return b.store.Get(key), nil
}

func (b *Bot) handleError(msg *tgbotapi.Message, err error) {
	log := b.log.With(zap.Int64("chat_id", msg.Chat.ID), zap.Int64("user_id", userID(msg)))

	if errors.Is(err, auth.ErrAccessDenied) {
		log.Warn("access denied", zap.Error(err))
		return
	}
	if op, ok := upstream.Op(err); ok {
		log.Error("upstream failure", zap.String("op", op), zap.Error(err))
	} else {
		log.Error("handler failed", zap.Error(err))
	}
	if sendErr := b.sendText(msg.Chat.ID, failureText); sendErr != nil {
		log.Error("failed to send failure notice", zap.Error(sendErr))
	}
}

func (b *Bot) handleText(ctx context.Context, sess *session.Session, msg *tgbotapi.Message) error {
	if imagegen.IsRequest(msg.Text) {
		return b.handleImage(ctx, msg)
	}

	b.chatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	reply, err := b.conv.ConverseFrom(ctx, sess, conversation.Input{
		Text:     msg.Text,
		UserID:   userID(msg),
		Modality: storage.ModalityText,
	})
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, reply)
}

// handleImage never touches the session turns.
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message) error {
	if b.images == nil {
		return b.sendText(msg.Chat.ID, unavailableText)
	}
	prompt := imagegen.Prompt(msg.Text)
	if prompt == "" {
		return b.sendText(msg.Chat.ID, imageUsageText)
	}

	b.chatAction(msg.Chat.ID, tgbotapi.ChatUploadPhoto)
	img, err := b.images.Generate(ctx, prompt, userKey(msg))
	if err != nil {
		return err
	}
	b.log.Debug("image generated", zap.Int64("chat_id", msg.Chat.ID), zap.String("path", img.Path))

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FilePath(img.Path))
	if _, err := b.api.Send(photo); err != nil {
		return upstream.Wrap("send photo", err)
	}
	return nil
}

// handleVoice: link -> download -> mp3 -> transcription -> conversation -> speech or text.
func (b *Bot) handleVoice(ctx context.Context, sess *session.Session, msg *tgbotapi.Message) error {
	if b.speech == nil || b.voice == nil || b.converter == nil {
		return b.sendText(msg.Chat.ID, unavailableText)
	}
	chatID := msg.Chat.ID
	key := userKey(msg)
	b.chatAction(chatID, tgbotapi.ChatRecordVoice)

	link, err := b.api.GetFileDirectURL(msg.Voice.FileID)
	if err != nil {
		return upstream.Wrap("voice link", err)
	}
	oggPath, err := b.voice.Download(ctx, link, key+".ogg")
	if err != nil {
		return upstream.Wrap("voice download", err)
	}
	mp3Path, err := b.converter.ToMP3(ctx, oggPath, key)
	if err != nil {
		return upstream.Wrap("audio conversion", err)
	}
	text, err := b.speech.Transcribe(ctx, mp3Path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return b.sendText(chatID, notHeardText)
	}

	reply, err := b.conv.ConverseFrom(ctx, sess, conversation.Input{
		Text:     text,
		UserID:   userID(msg),
		Modality: storage.ModalityVoice,
	})
	if err != nil {
		return err
	}

	if !b.speech.CanSynthesize() {
		return b.sendText(chatID, reply)
	}
	b.chatAction(chatID, tgbotapi.ChatRecordVoice)
	audio, err := b.speech.Synthesize(ctx, reply)
	if err != nil {
		b.log.Warn("speech synthesis failed, replying with text", zap.Int64("chat_id", chatID), zap.Error(err))
		return b.sendText(chatID, reply)
	}
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: fmt.Sprintf("%s.wav", key), Bytes: audio})
	if _, err := b.api.Send(voice); err != nil {
		return upstream.Wrap("send voice", err)
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		b.log.Warn("empty reply skipped", zap.Int64("chat_id", chatID))
		return nil
	}
	for _, part := range splitMessage(text, maxMessageLen) {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return upstream.Wrap("send message", err)
		}
	}
	return nil
}

// chatAction shows a presence indicator. Failures only get logged.
func (b *Bot) chatAction(chatID int64, action string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		b.log.Debug("chat action failed", zap.Int64("chat_id", chatID), zap.String("action", action), zap.Error(err))
	}
}
