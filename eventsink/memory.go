package eventsink

import (
	"context"
	"sync"

	"github.com/DomeLiquid/custody/core"
)

// Memory keeps published events in order. It is what a host without a broker uses.
type Memory struct {
	mu     sync.Mutex
	events []*core.Event
}

var _ core.EventSink = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(ctx context.Context, event *core.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) Events() []*core.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.Event, len(m.events))
	copy(out, m.events)
	return out
}
