package eventbus

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Policy controls what Publish does when a listener fails.
type Policy int

const (
	// FailFast stops dispatch at the first failure and returns it.
	FailFast Policy = iota
	// Collect attempts every matching listener and returns all failures together.
	Collect
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case Collect:
		return "collect"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "fail-fast" or "collect" (case-insensitive).
// An empty string yields FailFast.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "collect":
		return Collect, nil
	default:
		return FailFast, fmt.Errorf("unknown dispatch policy %q", s)
	}
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets the dispatch failure policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}

// WithLogger sets the logger used for registry diagnostics.
// Without it New copies the global logger from internal/logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = &logger
	}
}
