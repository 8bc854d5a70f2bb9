package hazard

import (
	"github.com/zeusync/ecosim/internal/core/events/bus"
	"github.com/zeusync/ecosim/internal/core/observability/log"
)

// Event types published by a Directory. Event data is a Record, except for
// rejections which carry a Rejection.
const (
	EventTriggered = "hazard.triggered"
	EventExpired   = "hazard.expired"
	EventRejected  = "hazard.rejected"

	eventSource = "hazard.directory"
)

// Rejection describes a trigger request that created no hazard.
type Rejection struct {
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

func (d *Directory) publish(typ string, data any) {
	if d.events == nil {
		return
	}
	ev := bus.NewEvent(typ, eventSource, data, map[string]any{"sim_time": d.now})
	if err := d.events.Publish(ev); err != nil {
		d.logger.Warn("Hazard event handler failed", log.String("event", typ), log.Error(err))
	}
}
