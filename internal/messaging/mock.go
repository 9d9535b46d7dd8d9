package messaging

import (
	"context"
	"sync"
)

// SentMessage records one outbound call made through the MockGateway.
type SentMessage struct {
	Channel  string // "reply" or "push"
	Target   string // reply token or push address
	Text     string
	ImageURL string
	Quick    []string
}

// MockGateway is a Gateway implementation for tests. It records every
// outbound call and can be configured to fail per channel.
type MockGateway struct {
	mu       sync.Mutex
	sent     []SentMessage
	ReplyErr error
	PushErr  error
}

// NewMockGateway creates an empty mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// ReplyText implements Gateway.
func (m *MockGateway) ReplyText(ctx context.Context, replyToken, text string, quickReplies []string) error {
	return m.record(SentMessage{Channel: "reply", Target: replyToken, Text: text, Quick: quickReplies}, m.ReplyErr)
}

// ReplyImage implements Gateway.
func (m *MockGateway) ReplyImage(ctx context.Context, replyToken, imageURL string) error {
	return m.record(SentMessage{Channel: "reply", Target: replyToken, ImageURL: imageURL}, m.ReplyErr)
}

// PushText implements Gateway.
func (m *MockGateway) PushText(ctx context.Context, to, text string) error {
	return m.record(SentMessage{Channel: "push", Target: to, Text: text}, m.PushErr)
}

// PushImage implements Gateway.
func (m *MockGateway) PushImage(ctx context.Context, to, imageURL string) error {
	return m.record(SentMessage{Channel: "push", Target: to, ImageURL: imageURL}, m.PushErr)
}

func (m *MockGateway) record(msg SentMessage, err error) error {
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of all recorded outbound calls.
func (m *MockGateway) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Reset clears all recorded calls.
func (m *MockGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
