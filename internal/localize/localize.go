// Package localize translates composed replies into the visitor's language.
// Both steps are best-effort: any failure returns the original reply, so the
// pass can never fail a turn.
package localize

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"trove-assistant/internal/llm"
)

var (
	codePattern  = regexp.MustCompile(`^[a-z]{2}$`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
)

// Proper nouns that must survive translation verbatim.
var properNouns = []string{
	"CareIQ", "VisualIQ", "DeepSenseIQ", "CyberIQ", "DataIQ",
	"LEXSO", "Constellis", "Trove",
}

type Localizer struct {
	client llm.Client
	base   string
}

// New returns a localizer with the given base language (2-letter code).
// A nil client disables the pass entirely.
func New(client llm.Client, baseLang string) *Localizer {
	base := strings.ToLower(strings.TrimSpace(baseLang))
	if !codePattern.MatchString(base) {
		base = "en"
	}
	return &Localizer{client: client, base: base}
}

// DetectLanguage returns the 2-letter language code of text. Defaults to the
// base language on any failure or malformed model output.
func (l *Localizer) DetectLanguage(ctx context.Context, text string) string {
	if l.client == nil {
		return l.base
	}
	resp, err := l.client.Generate(ctx, []llm.Message{
		{Role: "system", Content: "You are a language detector. Reply with exactly the two-letter ISO 639-1 code of the language of the user's message and nothing else."},
		{Role: "user", Content: text},
	})
	if err != nil {
		zap.L().Debug("language detection failed", zap.Error(err))
		return l.base
	}
	code := strings.ToLower(strings.TrimSpace(resp.Content))
	if !codePattern.MatchString(code) {
		zap.L().Debug("language detection returned malformed code", zap.String("raw", resp.Content))
		return l.base
	}
	return code
}

// Localize translates reply into the language of userText. The original reply
// is returned unchanged when the detected language is the base language, when
// any remote call fails, or when the translation dropped a protected entity.
func (l *Localizer) Localize(ctx context.Context, userText, reply string) string {
	if l.client == nil || reply == "" {
		return reply
	}
	lang := l.DetectLanguage(ctx, userText)
	if lang == l.base {
		return reply
	}

	prompt := "Translate the following reply into the language with ISO 639-1 code \"" + lang + "\". " +
		"Keep product names (" + strings.Join(properNouns, ", ") + "), URLs, and email addresses exactly as written. " +
		"Reply with the translation only.\n\n" + reply
	resp, err := l.client.Generate(ctx, []llm.Message{
		{Role: "system", Content: "You are a precise translator for a corporate website assistant."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		zap.L().Debug("translation failed, keeping original reply", zap.Error(err))
		return reply
	}
	translated := strings.TrimSpace(resp.Content)
	if translated == "" {
		return reply
	}
	for _, entity := range protectedEntities(reply) {
		if !strings.Contains(translated, entity) {
			zap.L().Debug("translation dropped protected entity, keeping original reply",
				zap.String("entity", entity))
			return reply
		}
	}
	return translated
}

// protectedEntities lists every literal substring of text that translation
// must carry over verbatim: proper nouns, emails, URLs.
func protectedEntities(text string) []string {
	var out []string
	for _, noun := range properNouns {
		if strings.Contains(text, noun) {
			out = append(out, noun)
		}
	}
	out = append(out, emailPattern.FindAllString(text, -1)...)
	out = append(out, urlPattern.FindAllString(text, -1)...)
	return out
}
