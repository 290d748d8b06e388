package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"trove-assistant/internal/assistant"
	"trove-assistant/internal/llm"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Generate(_ context.Context, _ []llm.Message) (llm.Response, error) {
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.reply}, nil
}

type fakeSynth struct {
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return f.audio, f.err
}

func newTestServer(deps assistant.Deps) http.Handler {
	return New(assistant.New(deps), "").Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "test-session"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestChatMissingMessage(t *testing.T) {
	h := newTestServer(assistant.Deps{})

	for _, body := range []interface{}{nil, map[string]string{}, map[string]string{"message": ""}} {
		w := doJSON(t, h, http.MethodPost, "/api/chat", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Fatalf("expected error field, got %q", w.Body.String())
		}
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	h := newTestServer(assistant.Deps{})
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doJSON(t, h, method, "/api/chat", nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s status = %d, want 405", method, w.Code)
		}
	}
}

func TestChatNavigationAndPendingSpeech(t *testing.T) {
	h := newTestServer(assistant.Deps{})

	w := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "I want a demo"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.NavigateTo != "contact" {
		t.Fatalf("navigate_to = %q, want contact", resp.NavigateTo)
	}
	if resp.Message == "" || resp.Reply != "" {
		t.Fatalf("navigation response shape wrong: %+v", resp)
	}

	// The reply is waiting for the next page load, exactly once.
	w = doJSON(t, h, http.MethodGet, "/api/pending-speech", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pending status = %d", w.Code)
	}
	var pending pendingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &pending); err != nil || pending.Text != resp.Message {
		t.Fatalf("pending = %+v, want %q", pending, resp.Message)
	}

	w = doJSON(t, h, http.MethodGet, "/api/pending-speech", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("second pending read status = %d, want 204", w.Code)
	}
}

func TestChatFreeTextWithAudio(t *testing.T) {
	h := newTestServer(assistant.Deps{
		Client: &fakeLLM{reply: "Greta says hi."},
		Synth:  &fakeSynth{audio: []byte("mp3-bytes")},
	})

	w := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "what's the weather today?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "Greta says hi." || resp.NavigateTo != "" {
		t.Fatalf("response = %+v", resp)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil || string(audio) != "mp3-bytes" {
		t.Fatalf("audio = %q", resp.Audio)
	}
}

func TestChatCompletionFailure(t *testing.T) {
	h := newTestServer(assistant.Deps{Client: &fakeLLM{err: errors.New("quota")}})

	w := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "random question"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error != llm.Apology {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSpeak(t *testing.T) {
	h := newTestServer(assistant.Deps{Synth: &fakeSynth{audio: []byte("mp3")}})

	w := doJSON(t, h, http.MethodPost, "/api/speak", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing text status = %d, want 400", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/api/speak", map[string]string{"text": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("content-type = %q, want audio/mpeg", ct)
	}
	if w.Body.String() != "mp3" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestSpeakFailure(t *testing.T) {
	h := newTestServer(assistant.Deps{Synth: &fakeSynth{err: errors.New("down")}})

	w := doJSON(t, h, http.MethodPost, "/api/speak", map[string]string{"text": "hello"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestWebSocketChat(t *testing.T) {
	srv := httptest.NewServer(newTestServer(assistant.Deps{}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	header := http.Header{}
	header.Set("Cookie", sessionCookieName+"=ws-session")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"message": "tell me about CareIQ"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.NavigateTo != "solutions" {
		t.Fatalf("navigate_to = %q, want solutions", resp.NavigateTo)
	}
	if !strings.Contains(resp.Message, "CareIQ provides") {
		t.Fatalf("message = %q", resp.Message)
	}
}
