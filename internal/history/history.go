// Package history keeps per-session conversation context for the generative
// fallback path.
package history

import (
	"sync"

	"crm-assistant/internal/llm"
)

type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string][]llm.Message)}
}

func (m *Manager) AppendUser(sessionID, content string) {
	m.append(sessionID, llm.Message{Role: "user", Content: content})
}

func (m *Manager) AppendAssistant(sessionID, content string) {
	m.append(sessionID, llm.Message{Role: "assistant", Content: content})
}

func (m *Manager) append(sessionID string, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
}

// Get returns a copy of the session's messages in append order.
func (m *Manager) Get(sessionID string) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.sessions[sessionID]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
