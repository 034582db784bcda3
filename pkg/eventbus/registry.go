package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/telnet2/eventbus/internal/logging"
)

// Registry stores subscriptions and dispatches published events to them.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	subs []*Subscription

	policy Policy
	logger *zerolog.Logger
}

// New creates an empty registry. Without WithLogger it keeps a copy of the
// global logger as it is at construction time.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		logger := logging.Logger
		r.logger = &logger
	}
	return r
}

func (r *Registry) log() *zerolog.Logger {
	return r.logger
}

// Policy returns the registry's dispatch failure policy.
func (r *Registry) Policy() Policy {
	return r.policy
}

// Subscribe registers l to be called for every published name accepted by m.
// It returns r to allow chaining.
func (r *Registry) Subscribe(m Matcher, l Listener) *Registry {
	sub := newSubscription(m, l)

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	n := len(r.subs)
	r.mu.Unlock()

	r.log().Debug().
		Str("subscription", sub.id).
		Str("matcher", m.String()).
		Int("subscriptions", n).
		Msg("subscribed")
	return r
}

// SubscribeFunc is Subscribe with a plain function listener.
func (r *Registry) SubscribeFunc(m Matcher, fn func(Details) error) *Registry {
	return r.Subscribe(m, ListenerFunc(fn))
}

// Publish delivers an event to every matching subscription, in subscription
// order, before returning. The payload is the union of details (later maps
// win) with EventNameKey set to name. Omitted or nil details are treated as
// empty. The returned registry is always r; the error follows r's Policy.
func (r *Registry) Publish(name string, details ...Details) (*Registry, error) {
	payload := newPayload(name, details)

	r.mu.RLock()
	subs := make([]*Subscription, len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	var (
		result    *multierror.Error
		delivered int
	)
	for _, sub := range subs {
		ok, err := sub.matcher.Match(name)
		if err == nil && !ok {
			continue
		}
		if err == nil {
			err = deliver(sub.listener, payload.Clone())
			delivered++
		}
		if err == nil {
			continue
		}

		err = &DispatchError{SubscriptionID: sub.id, EventName: name, Err: err}
		r.log().Warn().
			Err(err).
			Str("event", name).
			Str("subscription", sub.id).
			Str("policy", r.policy.String()).
			Msg("dispatch failed")

		if r.policy == FailFast {
			return r, err
		}
		result = multierror.Append(result, err)
	}

	r.log().Debug().
		Str("event", name).
		Int("delivered", delivered).
		Msg("published")
	return r, result.ErrorOrNil()
}

// deliver calls l, converting a panic into a *PanicError.
func deliver(l Listener, payload Details) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: string(debug.Stack())}
		}
	}()
	if l == nil {
		return ErrNilListener
	}
	return l.Receive(payload)
}

// Clear removes every subscription. It returns r to allow chaining.
func (r *Registry) Clear() *Registry {
	r.mu.Lock()
	n := len(r.subs)
	r.subs = nil
	r.mu.Unlock()

	r.log().Debug().Int("removed", n).Msg("cleared")
	return r
}

// Len returns the number of subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Subscriptions returns a snapshot of the subscriptions in insertion order.
func (r *Registry) Subscriptions() []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Subscription, len(r.subs))
	copy(out, r.subs)
	return out
}
