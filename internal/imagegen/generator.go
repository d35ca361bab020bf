package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sashabaranov/go-openai"

	"voice-chatter/internal/media"
	"voice-chatter/internal/upstream"
)

// Command is the token that turns a text message into an image request.
const Command = "/image"

// Image is a generated picture stored locally.
type Image struct {
	URL  string
	Path string
}

type Generator struct {
	client *openai.Client
	dl     *media.Downloader
}

func New(api *openai.Client, dir string, httpClient *http.Client) *Generator {
	return &Generator{client: api, dl: media.NewDownloader(dir, httpClient)}
}

// IsRequest reports whether text asks for an image.
func IsRequest(text string) bool {
	return strings.Contains(text, Command)
}

// Prompt strips the command token, including a "@botname" suffix glued to it,
// and collapses whitespace.
func Prompt(text string) string {
	i := strings.Index(text, Command)
	if i < 0 {
		return strings.Join(strings.Fields(text), " ")
	}
	rest := text[i+len(Command):]
	if strings.HasPrefix(rest, "@") {
		if j := strings.IndexFunc(rest, unicode.IsSpace); j >= 0 {
			rest = rest[j:]
		} else {
			rest = ""
		}
	}
	return strings.Join(strings.Fields(text[:i]+" "+rest), " ")
}

// Generate creates one 1024x1024 image for prompt and saves it as <dir>/<userID>.jpeg,
// replacing the previous image of that user.
func (g *Generator) Generate(ctx context.Context, prompt, userID string) (Image, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Size:           openai.CreateImageSize1024x1024,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return Image{}, upstream.Wrap("image generation", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return Image{}, upstream.Wrap("image generation", errors.New("no image url in response"))
	}
	url := resp.Data[0].URL

	path, err := g.dl.Download(ctx, url, userID+".jpeg")
	if err != nil {
		return Image{}, upstream.Wrap("image download", fmt.Errorf("%s: %w", filepath.Base(url), err))
	}
	return Image{URL: url, Path: path}, nil
}
