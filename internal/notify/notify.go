// Package notify delivers short text messages to the operator and formats
// the messages produced while logging into panel accounts.
package notify

import (
	"context"
	"sync"
)

// Notifier delivers a message on a best-effort basis, delivery failures are
// logged by the implementation and never surfaced to the caller.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Nop drops every message, it is used when no target is configured.
type Nop struct{}

func (Nop) Notify(context.Context, string) {}

// Fanout delivers each message to every notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, text string) {
	for _, n := range f {
		n.Notify(ctx, text)
	}
}

// Recorder keeps every message in memory.
type Recorder struct {
	mutex    sync.Mutex
	messages []string
}

func (r *Recorder) Notify(_ context.Context, text string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, text)
}

func (r *Recorder) Messages() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}
