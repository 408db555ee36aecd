package mock

import (
	"context"
	"fmt"
)

// MockGenerator is a test double for ai.AnswerGenerator.
// It records the prompts it receives and allows custom behavior injection.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses default deterministic behavior.
	GenerateAnswerFunc func(ctx context.Context, contextData, question string) (string, error)

	callCount    int
	lastContext  string
	lastQuestion string
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer records the call and returns a deterministic answer
// unless custom behavior is injected.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, contextData, question string) (string, error) {
	m.callCount++
	m.lastContext = contextData
	m.lastQuestion = question

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, contextData, question)
	}

	return fmt.Sprintf("answer to %q", question), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastContext returns the context data passed to the most recent call.
func (m *MockGenerator) LastContext() string {
	return m.lastContext
}

// LastQuestion returns the question passed to the most recent call.
func (m *MockGenerator) LastQuestion() string {
	return m.lastQuestion
}

// Reset clears the call count, recorded prompts and any injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastContext = ""
	m.lastQuestion = ""
	m.GenerateAnswerFunc = nil
}
