package notify

import (
	"context"
	"sync"
)

// Message is one recorded delivery.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Recorder captures messages in memory instead of delivering them. It stands
// in for the SMTP sender in tests and when no relay is configured.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	failWith error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records the message, or returns the injected failure.
func (r *Recorder) Notify(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipient == "" {
		return ErrNoRecipient
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.messages = append(r.messages, Message{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

// Messages returns a snapshot of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// FailWith makes subsequent Notify calls return err. Pass nil to restore
// normal recording.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
