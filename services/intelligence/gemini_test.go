package intelligence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

// newChatMapAgent builds an agent with just enough wiring to exercise the
// per-session chat bookkeeping. Starting a chat never touches the network.
func newChatMapAgent() *GeminiAgent {
	return &GeminiAgent{
		model: new(genai.Client).GenerativeModel("test-model"),
		chats: make(map[string]*genai.ChatSession),
	}
}

func TestChatForReturnsSameSessionChat(t *testing.T) {
	g := newChatMapAgent()

	first := g.chatFor("s1")
	if first == nil {
		t.Fatal("chatFor returned nil")
	}
	if second := g.chatFor("s1"); second != first {
		t.Error("chatFor started a new chat for an existing session")
	}
	if other := g.chatFor("s2"); other == first {
		t.Error("chatFor shared a chat across sessions")
	}
}

func TestForgetDropsChatHistory(t *testing.T) {
	g := newChatMapAgent()

	g.chatFor("s1")
	g.Forget("s1")
	if len(g.chats) != 0 {
		t.Errorf("chats has %d entries after Forget, want 0", len(g.chats))
	}

	// Forgetting an unknown session is a no-op.
	g.Forget("never-seen")
}

func TestChatMapConcurrentSessions(t *testing.T) {
	g := newChatMapAgent()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		sessionID := fmt.Sprintf("session-%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			g.chatFor(sessionID)
		}()
		go func() {
			defer wg.Done()
			g.chatFor(sessionID)
			g.Forget(sessionID)
		}()
	}
	wg.Wait()
}
