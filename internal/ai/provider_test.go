package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeProvider struct {
	name      string
	available bool
	reply     string
	err       error
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }
func (f *fakeProvider) Generate(ctx context.Context, req Request) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestCascadeFallsThrough(t *testing.T) {
	down := &fakeProvider{name: "a", available: true, err: errors.New("503")}
	empty := &fakeProvider{name: "b", available: true, reply: "  "}
	off := &fakeProvider{name: "c", available: false, reply: "never"}
	ok := &fakeProvider{name: "d", available: true, reply: "hello"}

	c := NewCascade(down, empty, off, ok)
	out, err := c.Generate(context.Background(), Request{User: "hi"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected reply from d, got %q", out)
	}
	if off.calls != 0 {
		t.Errorf("unavailable provider must not be called")
	}
	if got := strings.Join(c.ListAvailable(), ","); got != "a,b,d" {
		t.Errorf("unexpected available list %q", got)
	}
}

func TestCascadeErrors(t *testing.T) {
	if _, err := NewCascade().Generate(context.Background(), Request{}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}

	boom := errors.New("boom")
	c := NewCascade(&fakeProvider{name: "a", available: true, err: boom})
	_, err := c.Generate(context.Background(), Request{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error, got %v", err)
	}
}

func TestOpenAIClientGenerate(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  {\"type\":\"nonprofit\"}  "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(Config{Name: "local", Model: "test-model", BaseURL: srv.URL + "/v1", Timeout: 5 * time.Second})
	if !c.Available() || c.Name() != "local" {
		t.Fatalf("unexpected client state")
	}
	out, err := c.Generate(context.Background(), Request{System: "sys", User: "who owns it"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != `{"type":"nonprofit"}` {
		t.Errorf("unexpected reply %q", out)
	}
	if got.Model != "test-model" || len(got.Messages) != 2 || got.Messages[1].Content != "who owns it" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestOpenAIClientWithoutModelIsUnavailable(t *testing.T) {
	if NewOpenAI(Config{APIKey: "k"}).Available() {
		t.Errorf("expected client without model to be unavailable")
	}
}
