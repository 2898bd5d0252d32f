package mocks

import (
	"context"
	"sync"

	"github.com/hrygo/hackbot/ai/core/llm"
)

// MockLLM is a configurable in-process llm.Service for tests.
type MockLLM struct {
	mu              sync.Mutex
	responses       map[string]string
	callStats       *llm.LLMCallStats
	defaultResponse string
	err             error
	calls           [][]llm.Message
}

// NewMockLLM creates a new MockLLM instance.
func NewMockLLM() *MockLLM {
	return &MockLLM{
		responses: make(map[string]string),
		callStats: &llm.LLMCallStats{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		},
		defaultResponse: "Mock response",
	}
}

// WithResponse adds a preset response for a given user message.
func (m *MockLLM) WithResponse(input, output string) *MockLLM {
	m.responses[input] = output
	return m
}

// WithDefaultResponse sets the default response when no preset matches.
func (m *MockLLM) WithDefaultResponse(output string) *MockLLM {
	m.defaultResponse = output
	return m
}

// WithError makes every Chat call fail with err.
func (m *MockLLM) WithError(err error) *MockLLM {
	m.err = err
	return m
}

// Chat implements the llm.Service interface.
func (m *MockLLM) Chat(_ context.Context, msgs []llm.Message) (string, *llm.LLMCallStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]llm.Message(nil), msgs...))
	if m.err != nil {
		return "", nil, m.err
	}

	key := ""
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			key = msgs[i].Content
			break
		}
	}
	if response, ok := m.responses[key]; ok {
		return response, m.callStats, nil
	}
	return m.defaultResponse, m.callStats, nil
}

// Warmup implements the llm.Service interface.
func (m *MockLLM) Warmup(context.Context) {}

// Calls returns the messages of every Chat call so far.
func (m *MockLLM) Calls() [][]llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]llm.Message(nil), m.calls...)
}

// CallCount returns how many times Chat was invoked.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
