package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider implements Provider for testing.
// It uses an in-memory map to simulate file storage without requiring
// actual files or a remote source to be present.
type MockProvider struct {
	mu     sync.RWMutex
	files  map[string][]byte
	errors map[string]error
	reads  map[string]int
}

// NewMockProvider creates a new mock provider for testing.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		files:  make(map[string][]byte),
		errors: make(map[string]error),
		reads:  make(map[string]int),
	}
}

// AddFile adds a file to the mock provider.
func (m *MockProvider) AddFile(name string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
}

// RemoveFile deletes a file from the mock provider.
func (m *MockProvider) RemoveFile(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
}

// FailWith makes every read of name return err.
func (m *MockProvider) FailWith(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[name] = err
}

// Reads returns how many times name was requested.
func (m *MockProvider) Reads(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads[name]
}

// ReadFile reads a file from the mock storage.
func (m *MockProvider) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[name]++

	if err, ok := m.errors[name]; ok {
		return nil, err
	}
	content, exists := m.files[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return content, nil
}
