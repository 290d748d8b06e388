// Package history keeps the visible message log per widget session.
// In-memory only: the log does not survive a page navigation, matching the
// widget; the single pending-speech carryover lives in the mailbox instead.
package history

import (
	"sync"
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one visible chat turn. Immutable once created.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]Message
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string][]Message),
		now:      time.Now,
	}
}

func (m *Manager) Reset(session string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, session)
}

func (m *Manager) AppendUser(session, text string) {
	m.append(session, SenderUser, text)
}

func (m *Manager) AppendAssistant(session, text string) {
	m.append(session, SenderAssistant, text)
}

func (m *Manager) append(session string, sender Sender, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session] = append(m.sessions[session], Message{
		Sender:    sender,
		Text:      text,
		CreatedAt: m.now(),
	})
}

// Get returns a copy of the session's log.
func (m *Manager) Get(session string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.sessions[session]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
