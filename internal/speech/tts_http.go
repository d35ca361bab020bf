package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxAudioBytes = 20 << 20

// HTTPTTSClient talks to a Coqui-style TTS server: GET /api/tts returns audio bytes.
type HTTPTTSClient struct {
	baseURL   string
	speakerID string
	httpCli   *http.Client
}

func NewHTTPTTSClient(baseURL, speakerID string, httpCli *http.Client) *HTTPTTSClient {
	if httpCli == nil {
		httpCli = http.DefaultClient
	}
	return &HTTPTTSClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		speakerID: speakerID,
		httpCli:   httpCli,
	}
}

func (c *HTTPTTSClient) requestURL(text string) string {
	q := url.Values{}
	q.Set("text", text)
	q.Set("speaker_id", c.speakerID)
	q.Set("style_wav", "")
	q.Set("language_id", "")
	return c.baseURL + "/api/tts?" + q.Encode()
}

func (c *HTTPTTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(text), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned empty audio")
	}
	return audio, nil
}
