// Package router turns configured routes into eventbus subscriptions.
package router

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/telnet2/eventbus/internal/config"
	"github.com/telnet2/eventbus/internal/logging"
	"github.com/telnet2/eventbus/internal/sink"
	"github.com/telnet2/eventbus/pkg/eventbus"
)

// Router owns a registry built from configuration and the watermill
// channel that tap routes publish to.
type Router struct {
	mu       sync.Mutex
	registry *eventbus.Registry
	routes   []config.Route
	taps     *gochannel.GoChannel

	out    io.Writer
	logger zerolog.Logger
	ack    bool
}

// Option configures a Router.
type Option func(*Router)

// WithOutput sets where print sinks write. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Router) {
		r.out = w
	}
}

// WithLogger sets the logger used by log sinks and the registry.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithTapAck makes tap sinks block until a subscriber acknowledges each
// message, so tapped output stays in publish order.
func WithTapAck() Option {
	return func(r *Router) {
		r.ack = true
	}
}

// Build validates cfg and subscribes one listener per route on a new registry.
func Build(cfg *config.Config, opts ...Option) (*Router, error) {
	r := &Router{
		out:    os.Stdout,
		logger: logging.For("router"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := eventbus.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	r.taps = gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: r.ack,
		},
		watermill.NopLogger{},
	)
	r.registry = eventbus.New(
		eventbus.WithPolicy(policy),
		eventbus.WithLogger(r.logger),
	)

	if err := r.subscribe(cfg.Routes); err != nil {
		_ = r.taps.Close()
		return nil, err
	}
	return r, nil
}

// Registry returns the registry routes are subscribed on.
func (r *Router) Registry() *eventbus.Registry {
	return r.registry
}

// Routes returns the routes currently subscribed.
func (r *Router) Routes() []config.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]config.Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Taps returns the subscriber side of the tap channel.
func (r *Router) Taps() message.Subscriber {
	return r.taps
}

// Publish publishes on the router's registry.
func (r *Router) Publish(name string, details eventbus.Details) error {
	_, err := r.registry.Publish(name, details)
	return err
}

// Reload replaces the subscribed routes with those from cfg. The dispatch
// policy is fixed at Build. If any route fails to build, the current routes
// stay subscribed.
func (r *Router) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return r.subscribe(cfg.Routes)
}

// Close releases the tap channel.
func (r *Router) Close() error {
	return r.taps.Close()
}

// subscribe builds every listener first, then swaps the registry contents
// and r.routes together under r.mu.
func (r *Router) subscribe(routes []config.Route) error {
	listeners := make([]eventbus.Listener, len(routes))
	for i, route := range routes {
		listener, err := r.listener(route)
		if err != nil {
			return fmt.Errorf("route %s: %w", route.Label(), err)
		}
		listeners[i] = listener
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Clear()
	for i, route := range routes {
		r.registry.Subscribe(Matcher(route), listeners[i])
	}
	r.routes = append([]config.Route(nil), routes...)

	r.logger.Debug().Int("routes", len(r.routes)).Msg("routes subscribed")
	return nil
}

func (r *Router) listener(route config.Route) (eventbus.Listener, error) {
	var l eventbus.Listener
	switch route.Sink {
	case config.SinkPrint:
		l = sink.Print(r.out, route.Label())
	case config.SinkLog:
		l = sink.Log(r.logger, route.Label())
	case config.SinkTap:
		l = sink.Tap(r.taps, route.TapTopic())
	default:
		return nil, fmt.Errorf("%w: unknown sink %q", config.ErrInvalidRoute, route.Sink)
	}

	if route.Filter == "" {
		return l, nil
	}
	return sink.Filter(route.Filter, l)
}

// Matcher returns the eventbus matcher for a route.
func Matcher(route config.Route) eventbus.Matcher {
	if route.Pattern != "" {
		return eventbus.Expr(route.Pattern)
	}
	return eventbus.Exact(route.Event)
}
