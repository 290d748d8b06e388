package localize

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"trove-assistant/internal/llm"
)

// scriptedClient returns queued responses in order, then errors.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedClient) Generate(_ context.Context, _ []llm.Message) (llm.Response, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return llm.Response{}, c.errs[i]
	}
	if i < len(c.responses) {
		return llm.Response{Content: c.responses[i]}, nil
	}
	return llm.Response{}, fmt.Errorf("no scripted response for call %d", i)
}

func TestDetectDefaultsOnError(t *testing.T) {
	l := New(&scriptedClient{errs: []error{fmt.Errorf("boom")}}, "en")
	if got := l.DetectLanguage(context.Background(), "hola"); got != "en" {
		t.Fatalf("DetectLanguage on error = %q, want en", got)
	}
}

func TestDetectDefaultsOnMalformed(t *testing.T) {
	for _, raw := range []string{"Spanish", "esp", "", "e", "the language is es"} {
		l := New(&scriptedClient{responses: []string{raw}}, "en")
		if got := l.DetectLanguage(context.Background(), "hola"); got != "en" {
			t.Fatalf("DetectLanguage(%q) = %q, want en", raw, got)
		}
	}
}

func TestDetectAcceptsCode(t *testing.T) {
	l := New(&scriptedClient{responses: []string{" ES \n"}}, "en")
	if got := l.DetectLanguage(context.Background(), "hola"); got != "es" {
		t.Fatalf("DetectLanguage = %q, want es", got)
	}
}

func TestLocalizeSkipsBaseLanguage(t *testing.T) {
	client := &scriptedClient{responses: []string{"en"}}
	l := New(client, "en")
	reply := "We offer platforms like CareIQ."
	if got := l.Localize(context.Background(), "hello there", reply); got != reply {
		t.Fatalf("Localize rewrote base-language reply: %q", got)
	}
	if client.calls != 1 {
		t.Fatalf("expected only the detection call, got %d calls", client.calls)
	}
}

func TestLocalizeTranslates(t *testing.T) {
	translated := "Ofrecemos plataformas como CareIQ y DataIQ. Escríbenos a info@trove-ai.com."
	client := &scriptedClient{responses: []string{"es", translated}}
	l := New(client, "en")
	reply := "We offer platforms like CareIQ and DataIQ. Write to info@trove-ai.com."
	got := l.Localize(context.Background(), "¿qué plataformas ofrecen?", reply)
	if got != translated {
		t.Fatalf("Localize = %q, want %q", got, translated)
	}
}

func TestLocalizeKeepsOriginalWhenEntityDropped(t *testing.T) {
	// Translation lost the email address: fall back to the original.
	client := &scriptedClient{responses: []string{"es", "Ofrecemos CareIQ y DataIQ."}}
	l := New(client, "en")
	reply := "We offer CareIQ and DataIQ. Write to info@trove-ai.com."
	if got := l.Localize(context.Background(), "¿qué ofrecen?", reply); got != reply {
		t.Fatalf("Localize accepted a translation that dropped an entity: %q", got)
	}
}

func TestLocalizeKeepsOriginalOnTranslationError(t *testing.T) {
	client := &scriptedClient{responses: []string{"es"}, errs: []error{nil, fmt.Errorf("quota")}}
	l := New(client, "en")
	reply := "Here is a quick overview of Trove and LEXSO."
	if got := l.Localize(context.Background(), "hola", reply); got != reply {
		t.Fatalf("Localize on error = %q, want original", got)
	}
}

func TestProtectedEntities(t *testing.T) {
	text := "Contact info@trove-ai.com about CareIQ or visit https://trove-ai.com/solutions today."
	got := protectedEntities(text)
	for _, want := range []string{"CareIQ", "info@trove-ai.com", "https://trove-ai.com/solutions"} {
		found := false
		for _, e := range got {
			if strings.Contains(e, want) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("protectedEntities missing %q in %v", want, got)
		}
	}
}

func TestNilClientPassesThrough(t *testing.T) {
	l := New(nil, "en")
	if got := l.Localize(context.Background(), "hola", "reply"); got != "reply" {
		t.Fatalf("nil client should pass reply through, got %q", got)
	}
}
