// Package assistant orchestrates a widget turn: mesh hook, intent cascade,
// remote completion, localization, speech synthesis, pending-speech handoff.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"trove-assistant/internal/history"
	"trove-assistant/internal/intent"
	"trove-assistant/internal/llm"
	"trove-assistant/internal/localize"
	"trove-assistant/internal/mailbox"
	"trove-assistant/internal/speech"
	"trove-assistant/internal/storage"
)

// OfflineNotice is shown before the local fallback runs when the remote
// completion path is unreachable.
const OfflineNotice = "I'm having trouble connecting right now (Offline Mode)."

// ErrEmptyMessage is returned for blank input; callers reject it upstream.
var ErrEmptyMessage = errors.New("empty message")

// MeshResponder is an optional pre-classifier hook that may short-circuit a
// turn with a canned reply and a local side effect. Skipped when absent.
type MeshResponder interface {
	TryRespond(text string) (string, bool)
}

// Turn is the assistant's answer to one message.
type Turn struct {
	Reply      string
	NavigateTo intent.Target // empty when the turn does not navigate
	Audio      []byte        // optional MP3 payload
	Fallback   bool          // true when produced by the local fallback path
}

// Deps collects the engine's collaborators. Client, Synth, Recorder and Mesh
// may be nil; the engine degrades accordingly.
type Deps struct {
	Client    llm.Client
	Localizer *localize.Localizer
	Synth     speech.Synthesizer
	Mail      mailbox.Mailbox
	Recorder  storage.Recorder
	Mesh      MeshResponder
	// SystemPrompt overrides the built-in Greta persona when non-empty.
	SystemPrompt string
}

type Engine struct {
	client       llm.Client
	localizer    *localize.Localizer
	synth        speech.Synthesizer
	mail         mailbox.Mailbox
	hist         *history.Manager
	rec          storage.Recorder
	mesh         MeshResponder
	systemPrompt string
}

func New(deps Deps) *Engine {
	mail := deps.Mail
	if mail == nil {
		mail = mailbox.NewMemory()
	}
	systemPrompt := deps.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = llm.GretaSystemPrompt
	}
	return &Engine{
		client:       deps.Client,
		localizer:    deps.Localizer,
		synth:        deps.Synth,
		mail:         mail,
		hist:         history.NewManager(),
		rec:          deps.Recorder,
		mesh:         deps.Mesh,
		systemPrompt: systemPrompt,
	}
}

// Respond handles one turn. A matched intent composes the canned reply,
// queues it as pending speech (the page is about to navigate away) and
// returns the target. Ambiguous input goes to the completion client; its
// reply passes through localization and synthesis. A completion failure is
// returned as-is so each channel can apply its own fallback.
func (e *Engine) Respond(ctx context.Context, channel, session, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}
	e.hist.AppendUser(session, text)

	if e.mesh != nil {
		if reply, ok := e.mesh.TryRespond(text); ok {
			e.hist.AppendAssistant(session, reply)
			e.record(channel, session, text, intent.IntentNone, "", reply, false)
			return Turn{Reply: reply, Audio: e.synthesize(ctx, reply)}, nil
		}
	}

	in, topic := intent.Classify(text)
	if res, ok := intent.Compose(in, topic); ok {
		return e.navigationTurn(ctx, channel, session, text, in, res, false), nil
	}

	if e.client == nil {
		return e.FallbackReply(ctx, channel, session, text), nil
	}

	messages := []llm.Message{{Role: "system", Content: e.systemPrompt}}
	for _, m := range e.hist.Get(session) {
		messages = append(messages, llm.Message{Role: string(m.Sender), Content: m.Text})
	}

	resp, err := e.client.Generate(ctx, messages)
	if err != nil {
		return Turn{}, fmt.Errorf("completion failed: %w", err)
	}
	reply := resp.Content
	if e.localizer != nil {
		reply = e.localizer.Localize(ctx, text, reply)
	}

	e.hist.AppendAssistant(session, reply)
	e.record(channel, session, text, intent.IntentNone, "", reply, false)
	zap.L().Debug("completion turn",
		zap.String("session", session),
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.TotalTokens))

	return Turn{Reply: reply, Audio: e.synthesize(ctx, reply)}, nil
}

// FallbackReply is the local, remote-free duplicate call site of the
// cascade: reruns classifier+composer, and answers the fixed clarifying
// question when nothing matches. Used when no completion client is
// configured or the remote path failed. Never errors, never synthesizes.
func (e *Engine) FallbackReply(ctx context.Context, channel, session, text string) Turn {
	in, topic := intent.Classify(text)
	if res, ok := intent.Compose(in, topic); ok {
		return e.navigationTurn(ctx, channel, session, text, in, res, true)
	}

	e.hist.AppendAssistant(session, intent.ClarifyingQuestion)
	e.record(channel, session, text, intent.IntentNone, "", intent.ClarifyingQuestion, true)
	return Turn{Reply: intent.ClarifyingQuestion, Fallback: true}
}

func (e *Engine) navigationTurn(ctx context.Context, channel, session, text string, in intent.Intent, res intent.Result, fallback bool) Turn {
	e.hist.AppendAssistant(session, res.Message)
	// The reply is spoken on the next page load, after navigation.
	if err := e.mail.Put(ctx, session, res.Message); err != nil {
		zap.L().Warn("failed to queue pending speech", zap.Error(err))
	}
	e.record(channel, session, text, in, res.Target, res.Message, fallback)
	return Turn{Reply: res.Message, NavigateTo: res.Target, Fallback: fallback}
}

// TakePendingSpeech consumes the session's queued utterance, surfacing it in
// the visible log like the widget does on page load.
func (e *Engine) TakePendingSpeech(ctx context.Context, session string) (string, bool) {
	text, ok, err := e.mail.Take(ctx, session)
	if err != nil {
		zap.L().Warn("failed to consume pending speech", zap.Error(err))
		return "", false
	}
	if ok {
		e.hist.AppendAssistant(session, text)
	}
	return text, ok
}

// Synthesize exposes the speech client to the transport layer (/api/speak).
func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.synth == nil {
		return nil, speech.ErrUnavailable
	}
	return e.synth.Synthesize(ctx, text)
}

// History returns a copy of the session's visible message log.
func (e *Engine) History(session string) []history.Message {
	return e.hist.Get(session)
}

func (e *Engine) synthesize(ctx context.Context, text string) []byte {
	if e.synth == nil {
		return nil
	}
	audio, err := e.synth.Synthesize(ctx, text)
	if err != nil {
		// Silent degradation: the widget falls back to its local voice.
		if !errors.Is(err, speech.ErrUnavailable) {
			zap.L().Warn("speech synthesis failed", zap.Error(err))
		}
		return nil
	}
	return audio
}

func (e *Engine) record(channel, session, text string, in intent.Intent, target intent.Target, reply string, fallback bool) {
	if e.rec == nil {
		return
	}
	err := e.rec.AppendInteraction(storage.Event{
		Timestamp:  time.Now().UTC(),
		Session:    session,
		Channel:    channel,
		Message:    text,
		Intent:     string(in),
		NavigateTo: string(target),
		Reply:      reply,
		Fallback:   fallback,
	})
	if err != nil {
		zap.L().Warn("failed to record turn", zap.Error(err))
	}
}
