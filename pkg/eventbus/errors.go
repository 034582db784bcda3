package eventbus

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned by Publish when an Expr matcher fails to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrListenerPanic matches any *PanicError via errors.Is.
	ErrListenerPanic = errors.New("listener panicked")

	// ErrNilListener is reported when a subscription was registered with a nil Listener.
	ErrNilListener = errors.New("nil listener")
)

// DispatchError wraps a failure raised while delivering one event to one subscription.
type DispatchError struct {
	// SubscriptionID is the ID of the subscription that failed.
	SubscriptionID string

	// EventName is the name that was being published.
	EventName string

	// Err is the underlying error.
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %q to subscription %s: %v", e.EventName, e.SubscriptionID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking listener.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("listener panicked: %v", e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
