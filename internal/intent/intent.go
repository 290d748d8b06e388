// Package intent maps visitor messages to site navigation intents.
//
// Classification is a fixed ordered cascade of word-boundary regular
// expressions over the lowercased input: first match wins, no scoring.
// Several keywords (ai, deep, visual, cyber, data) are intentionally broad
// and over-match; that mirrors the live widget and is pinned by tests.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the single-label decision about what a message is about.
type Intent string

const (
	IntentContact   Intent = "contact"
	IntentSolutions Intent = "solutions"
	IntentAbout     Intent = "about"
	IntentHome      Intent = "home"
	IntentNone      Intent = "none"
)

// Topic is an optional refinement of an intent: one of the five product
// names, or the LEXSO partnership.
type Topic string

const (
	TopicNone        Topic = ""
	TopicCareIQ      Topic = "careiq"
	TopicVisualIQ    Topic = "visualiq"
	TopicDeepSenseIQ Topic = "deepsenseiq"
	TopicCyberIQ     Topic = "cyberiq"
	TopicDataIQ      Topic = "dataiq"
	TopicLexso       Topic = "lexso"
)

// Target is the logical page a matched intent navigates to.
type Target string

const (
	TargetHome      Target = "home"
	TargetAbout     Target = "about"
	TargetSolutions Target = "solutions"
	TargetContact   Target = "contact"
)

// Result is a composed navigation reply: where to go and what to say.
type Result struct {
	Target  Target `json:"navigate_to"`
	Message string `json:"message"`
}

// Routes maps logical targets to the static marketing pages.
var Routes = map[Target]string{
	TargetHome:      "/index.html",
	TargetAbout:     "/about.html",
	TargetSolutions: "/solutions.html",
	TargetContact:   "/contact.html",
}

// ClarifyingQuestion is the fixed reply for ambiguous input when no remote
// completion is available. It never navigates.
const ClarifyingQuestion = "Do you want information about our company, our solutions, or to contact us?"

var (
	contactPattern = regexp.MustCompile(`\b(contact|demo|pricing|price|cost|sales|partnership|partner|talk|speak|reach|connect|inquiry|quote|support|help|email|phone|call|meeting|schedule|book|info@trove-ai\.com)\b`)
	lexsoPattern   = regexp.MustCompile(`\blexso\b`)

	// Product sub-patterns tolerate an optional internal space
	// ("CareIQ" and "Care IQ"). Order matters: DeepSenseIQ before the bare
	// "deep"/"data" keywords in the generic solutions set below.
	productPatterns = []struct {
		topic Topic
		re    *regexp.Regexp
	}{
		{TopicCareIQ, regexp.MustCompile(`\bcare\s?iq\b`)},
		{TopicVisualIQ, regexp.MustCompile(`\bvisual\s?iq\b`)},
		{TopicDeepSenseIQ, regexp.MustCompile(`\bdeep\s?sense\s?iq\b`)},
		{TopicCyberIQ, regexp.MustCompile(`\bcyber\s?iq\b`)},
		{TopicDataIQ, regexp.MustCompile(`\bdata\s?iq\b`)},
	}

	solutionsPattern = regexp.MustCompile(`\b(solutions?|products?|capabilit|ai|sensor|how (it|this) works?|feature|technology|platform|service|offering|tool|deep|visual|cyber|data|careiq|visualiq|deepsenseiq|cyberiq|dataiq)\b`)
	aboutPattern     = regexp.MustCompile(`\b(mission|background|company|team|who are you|who is trove|history|founder|leadership|values|about (trove|the company|the team|you|us))\b`)
	homePattern      = regexp.MustCompile(`\b(home|start|main page|overview|landing|welcome|what is trove|what is lexso|lexso)\b`)
)

const solutionsSuffix = " Taking you to the Solutions page."

var productSentences = map[Topic]string{
	TopicCareIQ:      "CareIQ provides continuous, privacy-first monitoring for childcare and education safety.",
	TopicVisualIQ:    "VisualIQ turns live and recorded video into actionable security and operational insight.",
	TopicDeepSenseIQ: "DeepSenseIQ fuses cameras, sensors, and systems into a unified operational picture.",
	TopicCyberIQ:     "CyberIQ correlates signals across networks to surface threats earlier and reduce response time.",
	TopicDataIQ:      "DataIQ delivers secure document intelligence with OCR, semantic search, and structured extraction.",
}

var intentResults = map[Intent]Result{
	IntentContact: {
		Target:  TargetContact,
		Message: "We can connect you with our team for demos, pricing, or partnerships. Taking you to the Contact page.",
	},
	IntentSolutions: {
		Target:  TargetSolutions,
		Message: "We offer platforms like CareIQ, DeepSenseIQ, CyberIQ, and DataIQ for mission-critical operations. Taking you to the Solutions page.",
	},
	IntentAbout: {
		Target:  TargetAbout,
		Message: "Our mission is to deliver AI-powered solutions for safety, security, and mission-critical decision-making. Taking you to the About page.",
	},
	IntentHome: {
		Target:  TargetHome,
		Message: "Here is a quick overview of Trove and LEXSO. Taking you to the home page now.",
	},
}

const lexsoMessage = "LEXSO is our strategic partnership with Constellis, combining operational expertise with our AI platform."

// Classify maps raw input text to an intent and an optional topic.
// Callers must reject empty input before calling. Pure function, no side
// effects; evaluation order is part of the contract (contact always wins).
func Classify(text string) (Intent, Topic) {
	lower := strings.ToLower(text)

	if contactPattern.MatchString(lower) {
		return IntentContact, TopicNone
	}
	if lexsoPattern.MatchString(lower) {
		return IntentHome, TopicLexso
	}
	for _, p := range productPatterns {
		if p.re.MatchString(lower) {
			return IntentSolutions, p.topic
		}
	}
	switch {
	case solutionsPattern.MatchString(lower):
		return IntentSolutions, TopicNone
	case aboutPattern.MatchString(lower):
		return IntentAbout, TopicNone
	case homePattern.MatchString(lower):
		return IntentHome, TopicNone
	}
	return IntentNone, TopicNone
}

// Compose returns the canned navigation result for a classified intent.
// ok is false only for IntentNone.
func Compose(in Intent, topic Topic) (Result, bool) {
	if in == IntentNone {
		return Result{}, false
	}
	if topic == TopicLexso {
		return Result{Target: TargetHome, Message: lexsoMessage}, true
	}
	if sentence, ok := productSentences[topic]; ok {
		return Result{Target: TargetSolutions, Message: sentence + solutionsSuffix}, true
	}
	res, ok := intentResults[in]
	return res, ok
}

// Respond runs the full cascade: classify then compose. ok is false when the
// input is ambiguous and the caller should fall through to the remote
// completion path (or the clarifying question).
func Respond(text string) (Result, bool) {
	in, topic := Classify(text)
	return Compose(in, topic)
}
