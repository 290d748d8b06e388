package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"trove-assistant/internal/assistant"
	"trove-assistant/internal/llm"
)

type chatRequest struct {
	Message string `json:"message"`
}

type speakRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	NavigateTo string `json:"navigate_to,omitempty"`
	Message    string `json:"message,omitempty"`
	Reply      string `json:"reply,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`
}

type pendingResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message is required"})
		return
	}

	turn, err := s.engine.Respond(r.Context(), "http", sessionFrom(r), req.Message)
	if errors.Is(err, assistant.ErrEmptyMessage) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message is required"})
		return
	}
	if err != nil {
		zap.L().Error("chat turn failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: llm.Apology})
		return
	}

	if turn.NavigateTo != "" {
		writeJSON(w, http.StatusOK, chatResponse{
			NavigateTo: string(turn.NavigateTo),
			Message:    turn.Reply,
			Fallback:   turn.Fallback,
		})
		return
	}

	resp := chatResponse{Reply: turn.Reply, Fallback: turn.Fallback}
	if len(turn.Audio) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(turn.Audio)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Text is required"})
		return
	}

	audio, err := s.engine.Synthesize(r.Context(), req.Text)
	if err != nil {
		// The widget falls back to its local voice on any non-200.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error generating speech"})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		zap.L().Debug("failed to write audio response", zap.Error(err))
	}
}

func (s *Server) handlePendingSpeech(w http.ResponseWriter, r *http.Request) {
	text, ok := s.engine.TakePendingSpeech(r.Context(), sessionFrom(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, pendingResponse{Text: text})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("failed to encode response", zap.Error(err))
	}
}
