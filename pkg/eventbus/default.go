package eventbus

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Prefer passing an explicit *Registry to collaborators; Default exists for
// code that has no natural place to receive one.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Subscribe registers l on the default registry.
func Subscribe(m Matcher, l Listener) *Registry {
	return Default().Subscribe(m, l)
}

// SubscribeFunc registers fn on the default registry.
func SubscribeFunc(m Matcher, fn func(Details) error) *Registry {
	return Default().SubscribeFunc(m, fn)
}

// Publish publishes on the default registry.
func Publish(name string, details ...Details) (*Registry, error) {
	return Default().Publish(name, details...)
}

// Clear removes every subscription from the default registry.
func Clear() *Registry {
	return Default().Clear()
}
