package registry

import "github.com/attestia/certificate-registry-backend/interfaces"

// Events returns a copy of the full event history in emission order, for
// audit replay.
func (r *Registry) Events() []interfaces.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]interfaces.Event(nil), r.events...)
}

// Subscribe registers a live event subscriber and returns its channel.
// Events emitted after this call are delivered in order; a subscriber whose
// channel buffer is full loses events instead of blocking operations.
func (r *Registry) Subscribe() (SubscriberID, <-chan interfaces.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSubID++
	id := r.lastSubID
	ch := make(chan interfaces.Event, EventQueueSize)
	r.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unsubscribing an
// unknown ID is a no-op.
func (r *Registry) Unsubscribe(id SubscriberID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.subscribers[id]
	if !ok {
		return
	}
	delete(r.subscribers, id)
	close(ch)
}
