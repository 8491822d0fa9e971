package api

import (
	"context"
	"sync"

	"github.com/diogo/personachat/internal/models"
)

// MockClient is a mock implementation of ChatClientInterface for testing
type MockClient struct {
	// Mock return values
	Response *models.ChatResponse
	Err      error
	// SendFunc, when set, replaces Response/Err
	SendFunc func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	mu       sync.Mutex
	requests []models.ChatRequest
}

// Ensure MockClient implements ChatClientInterface
var _ ChatClientInterface = (*MockClient)(nil)

// NewMockClient returns a mock that answers every message with reply
func NewMockClient(reply string) *MockClient {
	return &MockClient{Response: &models.ChatResponse{Response: reply}}
}

// NewMockClientWithError returns a mock that fails every message with err
func NewMockClientWithError(err error) *MockClient {
	return &MockClient{Err: err}
}

func (m *MockClient) Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.SendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return m.Response, m.Err
}

// Calls returns how many times Send was called
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the requests received
func (m *MockClient) Requests() []models.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
