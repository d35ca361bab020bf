package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap/zaptest"

	"voice-chatter/internal/upstream"
)

type fakeDownloader struct{ urls, names []string }

func (f *fakeDownloader) Download(_ context.Context, url, name string) (string, error) {
	f.urls = append(f.urls, url)
	f.names = append(f.names, name)
	return "media/" + name, nil
}

type fakeConverter struct{ err error }

func (f fakeConverter) ToMP3(_ context.Context, src, name string) (string, error) {
	return "media/" + name + ".mp3", f.err
}

type fakeSpeech struct {
	text   string
	tts    bool
	ttsErr error
	files  []string
	spoken []string
}

func (f *fakeSpeech) Transcribe(_ context.Context, path string) (string, error) {
	f.files = append(f.files, path)
	return f.text, nil
}

func (f *fakeSpeech) CanSynthesize() bool { return f.tts }

func (f *fakeSpeech) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.spoken = append(f.spoken, text)
	if f.ttsErr != nil {
		return nil, f.ttsErr
	}
	return []byte("WAV:" + text), nil
}

func voiceFixture(t *testing.T, sp *fakeSpeech, conv fakeConverter) (*fixture, *fakeDownloader) {
	f := newFixture(t, "111")
	dl := &fakeDownloader{}
	f.api.fileURLs = map[string]string{"voice-1": "https://files/voice-1.oga"}
	f.bot.speech = sp
	f.bot.voice = dl
	f.bot.converter = conv
	f.bot.log = zaptest.NewLogger(t)
	return f, dl
}

func voiceMsg(chatID int64, fileID string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From:  &tgbotapi.User{ID: 7},
		Chat:  &tgbotapi.Chat{ID: chatID},
		Voice: &tgbotapi.Voice{FileID: fileID},
	}
}

func TestVoice_SpokenReply(t *testing.T) {
	sp := &fakeSpeech{text: "what time is it", tts: true}
	f, dl := voiceFixture(t, sp, fakeConverter{})

	if err := f.bot.dispatch(context.Background(), voiceMsg(111, "voice-1")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(dl.urls) != 1 || dl.urls[0] != "https://files/voice-1.oga" || dl.names[0] != "7.ogg" {
		t.Fatalf("unexpected download: %+v", dl)
	}
	if len(sp.files) != 1 || sp.files[0] != "media/7.mp3" {
		t.Fatalf("transcription got %v", sp.files)
	}
	turns := f.store.Get("111").Turns()
	if len(turns) != 2 || turns[0].Content != "what time is it" || turns[1].Content != "re:what time is it" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
	if len(f.api.voices) != 1 || string(f.api.voices[0]) != "WAV:re:what time is it" {
		t.Fatalf("voice reply not sent: %q", f.api.voices)
	}
	if len(f.api.sentTexts()) != 0 {
		t.Fatalf("text sent alongside voice")
	}
	if f.api.actions[0] != tgbotapi.ChatRecordVoice {
		t.Fatalf("record indicator not sent: %v", f.api.actions)
	}
}

func TestVoice_TextReplyWithoutTTS(t *testing.T) {
	f, _ := voiceFixture(t, &fakeSpeech{text: "hi"}, fakeConverter{})
	if err := f.bot.dispatch(context.Background(), voiceMsg(111, "voice-1")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := f.api.sentTexts(); len(got) != 1 || got[0] != "re:hi" {
		t.Fatalf("unexpected replies: %v", got)
	}
}

func TestVoice_TTSFailureFallsBackToText(t *testing.T) {
	f, _ := voiceFixture(t, &fakeSpeech{text: "hi", tts: true, ttsErr: errors.New("down")}, fakeConverter{})
	if err := f.bot.dispatch(context.Background(), voiceMsg(111, "voice-1")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := f.api.sentTexts(); len(got) != 1 || got[0] != "re:hi" {
		t.Fatalf("unexpected replies: %v", got)
	}
}

func TestVoice_ConversionFailure(t *testing.T) {
	f, _ := voiceFixture(t, &fakeSpeech{text: "hi"}, fakeConverter{err: errors.New("ffmpeg missing")})
	err := f.bot.dispatch(context.Background(), voiceMsg(111, "voice-1"))
	if op, ok := upstream.Op(err); !ok || op != "audio conversion" {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.store.Get("111").Len() != 0 {
		t.Fatalf("failed voice pipeline appended turns")
	}
}

func TestVoice_UnknownFile(t *testing.T) {
	f, _ := voiceFixture(t, &fakeSpeech{text: "hi"}, fakeConverter{})
	err := f.bot.dispatch(context.Background(), voiceMsg(111, "missing"))
	if op, ok := upstream.Op(err); !ok || op != "voice link" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVoice_NothingRecognized(t *testing.T) {
	f, _ := voiceFixture(t, &fakeSpeech{text: "  "}, fakeConverter{})
	if err := f.bot.dispatch(context.Background(), voiceMsg(111, "voice-1")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := f.api.sentTexts(); len(got) != 1 || got[0] != notHeardText {
		t.Fatalf("unexpected replies: %v", got)
	}
	if f.llm.calls != 0 {
		t.Fatalf("empty transcription reached the completion api")
	}
}
