// Package mailbox holds utterances queued for playback on the next page
// load. A put-once/take-once slot per session: Take consumes the entry, and
// entries older than the TTL are dead on read.
package mailbox

import (
	"context"
	"sync"
	"time"
)

// TTL after which a queued utterance is discarded unread.
const TTL = 2 * time.Minute

// PendingSpeech is one queued utterance.
type PendingSpeech struct {
	Text     string    `json:"text"`
	QueuedAt time.Time `json:"ts"`
}

type Mailbox interface {
	// Put queues text for the session, replacing any previous entry.
	Put(ctx context.Context, session, text string) error
	// Take consumes the session's entry. ok is false when the slot is empty
	// or the entry expired.
	Take(ctx context.Context, session string) (string, bool, error)
}

// Memory is the in-process implementation, used when Redis is not
// configured. Single slot per session, guarded by a mutex.
type Memory struct {
	mu      sync.Mutex
	entries map[string]PendingSpeech
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]PendingSpeech),
		now:     time.Now,
	}
}

func (m *Memory) Put(_ context.Context, session, text string) error {
	if text == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[session] = PendingSpeech{Text: text, QueuedAt: m.now()}
	return nil
}

func (m *Memory) Take(_ context.Context, session string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[session]
	if !ok {
		return "", false, nil
	}
	delete(m.entries, session)
	if m.now().Sub(e.QueuedAt) > TTL {
		return "", false, nil
	}
	return e.Text, true, nil
}

// Sweep drops expired entries. Run periodically so abandoned sessions do not
// pile up; correctness does not depend on it since Take checks age itself.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for session, e := range m.entries {
		if m.now().Sub(e.QueuedAt) > TTL {
			delete(m.entries, session)
			removed++
		}
	}
	return removed
}
