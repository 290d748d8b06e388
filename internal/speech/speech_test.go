package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesizeSuccess(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth header = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c := NewOpenAI("test-key", "gpt-4o-mini-tts", "marin", "German accent")
	c.endpoint = srv.URL

	audio, err := c.Synthesize(context.Background(), "Hello from Greta")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("audio = %q", audio)
	}
	if got.Model != "gpt-4o-mini-tts" || got.Voice != "marin" || got.Input != "Hello from Greta" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Instructions != "German accent" {
		t.Fatalf("instructions = %q", got.Instructions)
	}
}

func TestSynthesizeRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAI("test-key", "gpt-4o-mini-tts", "marin", "")
	c.endpoint = srv.URL

	if _, err := c.Synthesize(context.Background(), "hi"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestSynthesizeNoKey(t *testing.T) {
	c := NewOpenAI("", "gpt-4o-mini-tts", "marin", "")
	if _, err := c.Synthesize(context.Background(), "hi"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
