package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"voice-chatter/internal/auth"
	"voice-chatter/internal/config"
	"voice-chatter/internal/conversation"
	"voice-chatter/internal/imagegen"
	"voice-chatter/internal/llm"
	"voice-chatter/internal/media"
	"voice-chatter/internal/scheduler"
	"voice-chatter/internal/session"
	"voice-chatter/internal/speech"
	"voice-chatter/internal/storage"
	"voice-chatter/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg.DevLogging)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var allowRepo auth.Repository
	if cfg.AllowlistFilePath != "" {
		allowRepo = auth.NewFileRepository(cfg.AllowlistFilePath)
	}
	gate, err := auth.NewWithRepo(allowRepo, cfg.AllowedChatIDs)
	if err != nil {
		logger.Fatal("failed to init allow-list", zap.Error(err))
	}

	openaiAPI := llm.NewOpenAIAPI(llm.OpenAIOptions{
		APIKey:   cfg.OpenAIAPIKey,
		BaseURL:  cfg.OpenAIBaseURL,
		Referrer: cfg.OpenRouterReferrer,
		Title:    cfg.OpenRouterTitle,
	})
	llmClient, err := llm.NewFactory(cfg, openaiAPI).CreateClient(string(cfg.LLMProvider))
	if err != nil {
		logger.Fatal("failed to create llm client", zap.Error(err))
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			logger.Warn("interaction log disabled", zap.Error(err))
		} else {
			defer fr.Close()
			rec = fr
		}
	}

	var tts speech.TTSClient
	if cfg.VoiceRepliesEnabled() {
		tts = speech.NewHTTPTTSClient(cfg.VoiceAPI, cfg.TTSSpeakerID, nil)
	}

	api, err := telegram.NewAPI(cfg.TelegramBotToken, cfg.DevLogging)
	if err != nil {
		logger.Fatal("failed to connect to telegram", zap.Error(err))
	}

	bot := telegram.New(api, telegram.Deps{
		Store:        session.NewStore(),
		Gate:         gate,
		Conversation: conversation.New(llmClient, readSystemPrompt(cfg.SystemPromptPath, logger), rec, logger.Named("conversation")),
		Images:       imagegen.New(openaiAPI, cfg.ImageDir, nil),
		Speech:       speech.NewService(speech.NewWhisperClient(openaiAPI), tts),
		Voice:        media.NewDownloader(cfg.MediaDir, nil),
		Converter:    media.NewConverter(cfg.FFmpegPath),
		Logger:       logger.Named("telegram"),
		TraceUpdates: cfg.DevLogging,
	})

	sched := scheduler.New(logger.Named("scheduler"))
	janitor := media.NewJanitor(cfg.MediaMaxAge, cfg.ImageDir, cfg.MediaDir)
	if err := sched.AddJob("media-cleanup", cfg.MediaCleanupSchedule, func(context.Context) error {
		n, err := janitor.Sweep()
		if n > 0 {
			logger.Info("stale media removed", zap.Int("files", n))
		}
		return err
	}); err != nil {
		logger.Fatal("failed to schedule media cleanup", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	logger.Info("starting",
		zap.String("provider", string(cfg.LLMProvider)),
		zap.String("bot", api.Self.UserName),
		zap.Int("allowed_chats", gate.Len()),
		zap.Bool("voice_replies", cfg.VoiceRepliesEnabled()),
	)
	bot.Start(ctx)
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	return l
}

func readSystemPrompt(path string, logger *zap.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("system prompt unreadable", zap.String("path", path), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(string(data))
}
