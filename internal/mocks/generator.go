package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/sitegen/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt string) (*generation.Site, error)

	// Default response values
	Site *generation.Site
	Err  error

	// mu protects the call tracking state for concurrent test cases
	mu      sync.Mutex
	prompts []string
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (*generation.Site, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Site == nil {
		return nil, nil
	}

	// Callers normalize the result in place; hand out a copy.
	site := *m.Site
	return &site, nil
}

// Calls returns how many times Generate was called.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns the prompts passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
}

// NewMockGeneratorWithSite creates a MockGenerator that returns a copy of site
func NewMockGeneratorWithSite(site *generation.Site) *MockGenerator {
	return &MockGenerator{Site: site}
}

// NewMockGeneratorWithError creates a MockGenerator that returns err
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewMockGeneratorWithDefaultSite creates a MockGenerator with a small landing page
func NewMockGeneratorWithDefaultSite() *MockGenerator {
	return NewMockGeneratorWithSite(&generation.Site{
		HTML: `<main class="hero"><h1>Welcome</h1><button id="cta">Get started</button></main>`,
		CSS:  `.hero { display: grid; place-items: center; min-height: 100vh; }`,
		JS:   `document.getElementById("cta").addEventListener("click", () => alert("Hello!"));`,
	})
}

// MockGeneratorThatFails creates a MockGenerator that simulates a generation failure
func MockGeneratorThatFails() *MockGenerator {
	return NewMockGeneratorWithError(generation.ErrGenerationFailed)
}

// MockGeneratorWithTransientFailure creates a MockGenerator that simulates a transient failure
func MockGeneratorWithTransientFailure() *MockGenerator {
	return NewMockGeneratorWithError(generation.ErrTransientFailure)
}

// MockGeneratorWithContentBlocked creates a MockGenerator that simulates content being blocked
func MockGeneratorWithContentBlocked() *MockGenerator {
	return NewMockGeneratorWithError(generation.ErrContentBlocked)
}
