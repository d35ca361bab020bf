package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"voice-chatter/internal/llm"
	"voice-chatter/internal/upstream"
)

func TestPrompt(t *testing.T) {
	cases := map[string]string{
		"/image a red cube":       "a red cube",
		"draw /image  a cat ":     "draw a cat",
		"/image":                  "",
		"/image@MyBot a red cube": "a red cube",
		"/image@MyBot":            "",
	}
	for in, want := range cases {
		if !IsRequest(in) {
			t.Fatalf("%q not detected as image request", in)
		}
		if got := Prompt(in); got != want {
			t.Fatalf("Prompt(%q) = %q, want %q", in, got, want)
		}
	}
	if IsRequest("hello") {
		t.Fatalf("plain text detected as image request")
	}
}

func TestGenerate_DownloadsPerUser(t *testing.T) {
	var req struct {
		Prompt string `json:"prompt"`
		Size   string `json:"size"`
		N      int    `json:"n"`
	}
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"` + srv.URL + `/img.png"}]}`))
	})
	mux.HandleFunc("/img.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("JPEGDATA"))
	})

	dir := filepath.Join(t.TempDir(), "images")
	api := llm.NewOpenAIAPI(llm.OpenAIOptions{APIKey: "sk", BaseURL: srv.URL})
	g := New(api, dir, srv.Client())

	img, err := g.Generate(context.Background(), "a red cube", "77")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if req.Prompt != "a red cube" || req.Size != "1024x1024" || req.N != 1 {
		t.Fatalf("unexpected image request: %+v", req)
	}
	if img.Path != filepath.Join(dir, "77.jpeg") || img.URL != srv.URL+"/img.png" {
		t.Fatalf("unexpected image: %+v", img)
	}
	b, err := os.ReadFile(img.Path)
	if err != nil || string(b) != "JPEGDATA" {
		t.Fatalf("image not stored: %q %v", b, err)
	}
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"rejected","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	g := New(llm.NewOpenAIAPI(llm.OpenAIOptions{APIKey: "sk", BaseURL: srv.URL}), t.TempDir(), srv.Client())
	_, err := g.Generate(context.Background(), "x", "1")
	if op, ok := upstream.Op(err); !ok || op != "image generation" {
		t.Fatalf("unexpected error: %v", err)
	}
}
