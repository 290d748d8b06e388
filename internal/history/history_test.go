package history

import (
	"testing"
)

func TestHistoryAppendGetReset(t *testing.T) {
	h := NewManager()

	h.AppendUser("a", "hello")
	h.AppendAssistant("a", "hi")
	h.AppendUser("b", "foo")
	h.AppendAssistant("b", "bar")

	msgsA := h.Get("a")
	msgsB := h.Get("b")

	if len(msgsA) != 2 || len(msgsB) != 2 {
		t.Fatalf("unexpected lengths: A=%d B=%d", len(msgsA), len(msgsB))
	}
	if msgsA[0].Sender != SenderUser || msgsA[0].Text != "hello" {
		t.Fatalf("unexpected A[0]: %+v", msgsA[0])
	}
	if msgsA[1].Sender != SenderAssistant || msgsA[1].Text != "hi" {
		t.Fatalf("unexpected A[1]: %+v", msgsA[1])
	}
	if msgsA[0].CreatedAt.IsZero() {
		t.Fatalf("message timestamp not set")
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	msgsA[0] = Message{Sender: SenderUser, Text: "mutated"}
	if h.Get("a")[0].Text != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}

	h.Reset("a")
	if len(h.Get("a")) != 0 {
		t.Fatalf("reset did not clear session a")
	}
	if len(h.Get("b")) != 2 {
		t.Fatalf("reset should not affect other sessions")
	}
}
