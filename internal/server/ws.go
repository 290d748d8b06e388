package server

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trove-assistant/internal/assistant"
)

// fallbackDelay before the local fallback reply follows the offline notice,
// mirroring the widget's retry pause.
const fallbackDelay = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket runs the live channel: the widget sends {message} frames
// (typed or speech-transcribed) and receives one turn frame per message.
// Remote failures never close the connection; they answer with the offline
// notice and then the local fallback turn.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	session := sessionFrom(r)
	zap.L().Info("websocket chat opened", zap.String("session", session))

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			if err := conn.WriteJSON(errorResponse{Error: "Message is required"}); err != nil {
				return
			}
			continue
		}

		turn, err := s.engine.Respond(r.Context(), "websocket", session, req.Message)
		if err != nil {
			zap.L().Warn("websocket turn failed, using local fallback", zap.Error(err))
			if err := conn.WriteJSON(chatResponse{Reply: assistant.OfflineNotice}); err != nil {
				return
			}
			time.Sleep(fallbackDelay)
			turn = s.engine.FallbackReply(r.Context(), "websocket", session, req.Message)
		}

		resp := chatResponse{
			NavigateTo: string(turn.NavigateTo),
			Fallback:   turn.Fallback,
		}
		if turn.NavigateTo != "" {
			resp.Message = turn.Reply
		} else {
			resp.Reply = turn.Reply
		}
		if len(turn.Audio) > 0 {
			resp.Audio = base64.StdEncoding.EncodeToString(turn.Audio)
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
