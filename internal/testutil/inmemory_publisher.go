package testutil

import (
	"context"
	"sync"

	"github.com/talentflow/talentflow/internal/publisher"
	"github.com/talentflow/talentflow/internal/types"
)

// InMemoryChangePublisher records published change events for assertions
type InMemoryChangePublisher struct {
	mu     sync.RWMutex
	events []*types.ChangeEvent
}

var _ publisher.ChangePublisher = (*InMemoryChangePublisher)(nil)

func NewInMemoryChangePublisher() *InMemoryChangePublisher {
	return &InMemoryChangePublisher{
		events: make([]*types.ChangeEvent, 0),
	}
}

// Publish implements publisher.ChangePublisher
func (p *InMemoryChangePublisher) Publish(ctx context.Context, event *types.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// GetEvents returns all published events in order
func (p *InMemoryChangePublisher) GetEvents() []*types.ChangeEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	events := make([]*types.ChangeEvent, len(p.events))
	copy(events, p.events)
	return events
}

// EventsNamed returns the published events called name
func (p *InMemoryChangePublisher) EventsNamed(name string) []*types.ChangeEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*types.ChangeEvent, 0)
	for _, e := range p.events {
		if e.EventName == name {
			out = append(out, e)
		}
	}
	return out
}

// Clear removes all published events
func (p *InMemoryChangePublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = make([]*types.ChangeEvent, 0)
}
