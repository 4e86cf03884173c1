package events

// Subscriber consumes broker events. Send must not block; the broker
// delivers to every subscriber from a single goroutine.
type Subscriber interface {
	Send(Event) error
	Close() error
}
