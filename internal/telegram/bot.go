package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"voice-chatter/internal/auth"
	"voice-chatter/internal/conversation"
	"voice-chatter/internal/imagegen"
	"voice-chatter/internal/session"
)

type Gate interface {
	IsListed(chatID string) bool
	Check(s auth.Session) error
}

type Conversation interface {
	ConverseFrom(ctx context.Context, s *session.Session, in conversation.Input) (string, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt, userID string) (imagegen.Image, error)
}

type Speech interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
	CanSynthesize() bool
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Downloader interface {
	Download(ctx context.Context, url, name string) (string, error)
}

type AudioConverter interface {
	ToMP3(ctx context.Context, src, name string) (string, error)
}

// Deps are the collaborators of the bot. Store, Gate and Conversation are required.
type Deps struct {
	Store        *session.Store
	Gate         Gate
	Conversation Conversation
	Images       ImageGenerator
	Speech       Speech
	Voice        Downloader
	Converter    AudioConverter
	Logger       *zap.Logger
	// TraceUpdates logs every inbound update at debug level.
	TraceUpdates bool
}

type Bot struct {
	api   botAPI
	store *session.Store
	gate  Gate
	conv  Conversation

	images    ImageGenerator
	speech    Speech
	voice     Downloader
	converter AudioConverter

	log   *zap.Logger
	trace bool
	queue *chatQueue
}

func New(api botAPI, d Deps) *Bot {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:       api,
		store:     d.Store,
		gate:      d.Gate,
		conv:      d.Conversation,
		images:    d.Images,
		speech:    d.Speech,
		voice:     d.Voice,
		converter: d.Converter,
		log:       log,
		trace:     d.TraceUpdates,
		queue:     newChatQueue(),
	}
}

// Start long-polls Telegram until ctx is cancelled or the update channel closes,
// then waits for in-flight handlers to finish.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	// handlers keep running after shutdown is requested so replies are not cut off
	handlerCtx := context.WithoutCancel(ctx)

	b.log.Info("bot started")
	defer b.log.Info("bot stopped")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.queue.Wait()
			return
		case upd, ok := <-updates:
			if !ok {
				b.queue.Wait()
				return
			}
			b.enqueue(handlerCtx, upd)
		}
	}
}

func (b *Bot) enqueue(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if b.trace {
		b.log.Debug("update",
			zap.Int("update_id", upd.UpdateID),
			zap.Int64("chat_id", msg.Chat.ID),
			zap.String("text", msg.Text),
			zap.Bool("voice", msg.Voice != nil),
		)
	}
	b.queue.Submit(msg.Chat.ID, func() { b.handleMessage(ctx, msg) })
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// userKey names per-user transient files. Channel posts have no sender; the chat is used.
func userKey(msg *tgbotapi.Message) string {
	if msg.From != nil {
		return strconv.FormatInt(msg.From.ID, 10)
	}
	return chatKey(msg.Chat.ID)
}

func userID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return 0
}
