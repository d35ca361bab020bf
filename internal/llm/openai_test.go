package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGenerate_SendsFullHistory(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var referer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"pong"}}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	}))
	defer srv.Close()

	api := NewOpenAIAPI(OpenAIOptions{APIKey: "sk", BaseURL: srv.URL, Referrer: "https://example.org"})
	c := NewOpenAI(api, "test-model")
	resp, err := c.Generate(context.Background(), []Message{
		{Role: "user", Content: "ping"},
		{Role: "assistant", Content: "pong"},
		{Role: "user", Content: "again"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "pong" || resp.TotalTokens != 4 || resp.Model != "test-model" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.Model != "test-model" || len(got.Messages) != 3 || got.Messages[2].Content != "again" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if referer != "https://example.org" {
		t.Fatalf("referrer header not injected: %q", referer)
	}
}

func TestOpenAIGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(NewOpenAIAPI(OpenAIOptions{APIKey: "sk", BaseURL: srv.URL}), "m")
	if _, err := c.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	f := &Factory{}
	if _, err := f.CreateClient("nope"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if _, err := f.CreateClient(ProviderOpenAI); err == nil {
		t.Fatalf("expected error without openai client")
	}
}
