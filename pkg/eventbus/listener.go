package eventbus

// EventNameKey is the reserved payload key holding the published event name.
const EventNameKey = "event_name"

// Details maps identifiers to arbitrary values. It is both the input to
// Publish and the payload handed to listeners.
type Details map[string]any

// EventName returns the value stored under EventNameKey, or "" if absent.
func (d Details) EventName() string {
	name, _ := d[EventNameKey].(string)
	return name
}

// Clone returns a shallow copy of d. The result is never nil.
func (d Details) Clone() Details {
	out := make(Details, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Listener receives dispatched events.
type Listener interface {
	Receive(payload Details) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(payload Details) error

// Receive calls f(payload).
func (f ListenerFunc) Receive(payload Details) error {
	return f(payload)
}

// newPayload merges details left to right and stamps the event name last so
// it always wins over a caller-supplied event_name.
func newPayload(name string, details []Details) Details {
	size := 1
	for _, d := range details {
		size += len(d)
	}
	payload := make(Details, size)
	for _, d := range details {
		for k, v := range d {
			payload[k] = v
		}
	}
	payload[EventNameKey] = name
	return payload
}
