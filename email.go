package authcore

import (
	"context"
	"log"
	"sync"
)

// MockEmailClient records dispatches instead of sending mail. Only the
// recipient and subject are logged; the body carries the verification
// code and must never reach the log output.
type MockEmailClient struct {
	mu     sync.Mutex
	logger *log.Logger
	sent   []SentEmail
}

// SentEmail is one captured dispatch.
type SentEmail struct {
	Recipient Email
	Subject   string
	Content   string
}

// NewMockEmailClient returns a client logging through logger, or the
// standard logger when nil.
func NewMockEmailClient(logger *log.Logger) *MockEmailClient {
	if logger == nil {
		logger = log.Default()
	}
	return &MockEmailClient{logger: logger}
}

func (c *MockEmailClient) Send(ctx context.Context, recipient Email, subject, content string) error {
	c.mu.Lock()
	c.sent = append(c.sent, SentEmail{Recipient: recipient, Subject: subject, Content: content})
	c.mu.Unlock()
	c.logger.Printf("sending email to %s with subject %q", recipient.String(), subject)
	return nil
}

// Sent returns a copy of every dispatch captured so far.
func (c *MockEmailClient) Sent() []SentEmail {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SentEmail, len(c.sent))
	copy(out, c.sent)
	return out
}

var _ EmailClient = (*MockEmailClient)(nil)
