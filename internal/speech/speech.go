// Package speech wraps the hosted speech-synthesis endpoint.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable signals that synthesis failed and the caller should degrade:
// the widget switches to the browser-local voice, server channels go silent.
var ErrUnavailable = errors.New("speech synthesis unavailable")

const defaultEndpoint = "https://api.openai.com/v1/audio/speech"

// Synthesizer converts reply text to audio. Implementations must not retry.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// OpenAIClient calls the OpenAI speech endpoint with a fixed persona
// configuration and returns MP3 bytes.
type OpenAIClient struct {
	apiKey       string
	endpoint     string
	model        string
	voice        string
	instructions string
	client       *http.Client
}

type speechRequest struct {
	Model        string `json:"model"`
	Input        string `json:"input"`
	Voice        string `json:"voice"`
	Instructions string `json:"instructions,omitempty"`
}

func NewOpenAI(apiKey, model, voice, instructions string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:       apiKey,
		endpoint:     defaultEndpoint,
		model:        model,
		voice:        voice,
		instructions: instructions,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *OpenAIClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(speechRequest{
		Model:        c.model,
		Input:        text,
		Voice:        c.voice,
		Instructions: c.instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Warn("speech request failed", zap.Error(err))
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		zap.L().Warn("speech endpoint returned error",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", msg))
		return nil, ErrUnavailable
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		zap.L().Warn("failed to read speech audio", zap.Error(err))
		return nil, ErrUnavailable
	}
	return audio, nil
}
