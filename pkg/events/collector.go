package events

// EventCollector holds the domain events an aggregate raised during its state
// changes. Aggregates in this codebase return modified copies, so Record
// never appends in place: a copy and its predecessor must not share a
// backing array.
type EventCollector struct {
	pending []DomainEvent
}

// Record returns a collector holding the pending events followed by evts.
func (c EventCollector) Record(evts ...DomainEvent) EventCollector {
	if len(evts) == 0 {
		return c
	}
	next := make([]DomainEvent, 0, len(c.pending)+len(evts))
	next = append(next, c.pending...)
	next = append(next, evts...)
	return EventCollector{pending: next}
}

// DomainEvents returns the pending events in the order they were raised.
func (c EventCollector) DomainEvents() []DomainEvent {
	return c.pending
}

// Len reports how many events are pending.
func (c EventCollector) Len() int {
	return len(c.pending)
}
