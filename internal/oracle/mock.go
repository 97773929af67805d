package oracle

import (
	"context"
	"sync"
)

func init() {
	RegisterFactory("mock", func(config map[string]any) (Oracle, error) {
		m := NewMockOracle()
		// YAML decoding yields []any, direct construction []string.
		switch replies := config["replies"].(type) {
		case []string:
			m.Script(replies...)
		case []any:
			script := make([]string, 0, len(replies))
			for _, r := range replies {
				if s, ok := r.(string); ok {
					script = append(script, s)
				}
			}
			m.Script(script...)
		}
		return m, nil
	})
}

// MockOracle is a scripted oracle for tests and offline play.
// Replies are returned in order; when the script runs out the last
// reply repeats.
type MockOracle struct {
	mu      sync.Mutex
	replies []string
	next    int
	err     error
	calls   []string
}

// NewMockOracle creates an empty mock. With no script it replies with "".
func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

// Name returns the provider name
func (m *MockOracle) Name() string {
	return "mock"
}

// Script replaces the reply script and rewinds to its start.
func (m *MockOracle) Script(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = replies
	m.next = 0
}

// Fail makes every subsequent Send return err. Pass nil to recover.
func (m *MockOracle) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of every prompt received so far.
func (m *MockOracle) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Send records the prompt and returns the next scripted reply.
func (m *MockOracle) Send(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, prompt)

	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}

	reply := m.replies[m.next]
	if m.next < len(m.replies)-1 {
		m.next++
	}
	return reply, nil
}
