package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter turns Telegram ogg/opus voice notes into mp3 with ffmpeg.
type Converter struct {
	ffmpeg string
}

func NewConverter(ffmpegPath string) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Converter{ffmpeg: ffmpegPath}
}

// ToMP3 converts src into <dir of src>/<name>.mp3 and returns the new path.
func (c *Converter) ToMP3(ctx context.Context, src, name string) (string, error) {
	dst := filepath.Join(filepath.Dir(src), name+".mp3")
	cmd := exec.CommandContext(ctx, c.ffmpeg, mp3Args(src, dst)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg %s -> %s: %w: %s", src, dst, err, strings.TrimSpace(string(out)))
	}
	return dst, nil
}

func mp3Args(src, dst string) []string {
	return []string{"-y", "-loglevel", "error", "-i", src, "-vn", "-acodec", "libmp3lame", "-ar", "16000", "-ac", "1", dst}
}
