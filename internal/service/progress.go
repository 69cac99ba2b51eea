package service

import (
	"context"
	"strings"

	"adaptkit/internal/adapter"
)

// eventProgress turns extractor progress into unit events.
// It is canceled once ctx is done.
type eventProgress struct {
	ctx   context.Context
	bus   *EventBus
	label string
	done  int
	total int
}

var _ adapter.Progress = (*eventProgress)(nil)

func newEventProgress(ctx context.Context, bus *EventBus, total int) *eventProgress {
	return &eventProgress{ctx: ctx, bus: bus, total: total}
}

func (p *eventProgress) SubTask(label string) {
	p.label = strings.TrimPrefix(label, adapter.SubTaskPrefix)
	p.bus.Publish(Event{Type: EventUnitStarted, Payload: p.snapshot()})
}

func (p *eventProgress) Worked(units int) {
	p.done += units
	p.bus.Publish(Event{Type: EventUnitCompleted, Payload: p.snapshot()})
}

func (p *eventProgress) IsCanceled() bool {
	return p.ctx.Err() != nil
}

func (p *eventProgress) snapshot() UnitProgress {
	return UnitProgress{Label: p.label, Done: p.done, Total: p.total}
}
