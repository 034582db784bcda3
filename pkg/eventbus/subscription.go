package eventbus

import "github.com/oklog/ulid/v2"

// Subscription is one registered interest. It is immutable once created and
// compared by identity; subscribing the same matcher and listener twice
// yields two independent subscriptions.
type Subscription struct {
	id       string
	matcher  Matcher
	listener Listener
}

func newSubscription(m Matcher, l Listener) *Subscription {
	return &Subscription{
		id:       ulid.Make().String(),
		matcher:  m,
		listener: l,
	}
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string { return s.id }

// Matcher returns the matcher the subscription was registered with.
func (s *Subscription) Matcher() Matcher { return s.matcher }

// Listener returns the subscribed listener.
func (s *Subscription) Listener() Listener { return s.listener }
