package config

// Sink kinds accepted in Route.Sink.
const (
	SinkPrint = "print"
	SinkLog   = "log"
	SinkTap   = "tap"
)

// Config is the merged eventbus configuration.
type Config struct {
	LogLevel string  `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Policy   string  `json:"policy,omitempty" yaml:"policy,omitempty"`
	Routes   []Route `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// Route describes one subscription: which names it matches and where the
// payload goes. Exactly one of Event and Pattern must be set.
type Route struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Event   string `json:"event,omitempty" yaml:"event,omitempty"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Sink    string `json:"sink,omitempty" yaml:"sink,omitempty"`
	// Filter is an optional jq expression applied to the payload.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
	// Topic is the watermill topic for tap sinks. Defaults to DefaultTapTopic.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`
}

// DefaultTapTopic is used by tap routes without an explicit topic.
const DefaultTapTopic = "eventbus.tap"

// Label returns the route name, falling back to its matcher text.
func (r Route) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Event != "":
		return r.Event
	case r.Pattern != "":
		return "/" + r.Pattern + "/"
	default:
		return ""
	}
}

// TapTopic returns the route's topic or DefaultTapTopic.
func (r Route) TapTopic() string {
	if r.Topic != "" {
		return r.Topic
	}
	return DefaultTapTopic
}
