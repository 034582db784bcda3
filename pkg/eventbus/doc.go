// Package eventbus provides a synchronous, in-process publish/subscribe registry.
//
// Components subscribe a Listener against a Matcher, either an exact event
// name or a regular expression, and publishers announce events by name with
// an optional set of details. Every matching listener receives the details
// plus the reserved EventNameKey entry holding the published name.
//
// # Dispatch
//
// Publish runs matching listeners in the order they were subscribed, on the
// caller's goroutine, and returns only after all of them have run. The
// subscription list is snapshotted before dispatch, so listeners may
// Subscribe or Clear without deadlocking; such changes apply to later
// publishes.
//
// # Failure policy
//
// With FailFast (the default) the first listener error aborts the remaining
// dispatch and is returned to the publisher. With Collect every matching
// listener is attempted and failures are returned together as a
// *multierror.Error. Panics in listeners are recovered and reported as
// *PanicError under either policy.
//
// # Usage
//
//	bus := eventbus.New()
//	bus.SubscribeFunc(eventbus.Exact("session.created"), func(p eventbus.Details) error {
//	    fmt.Println(p[eventbus.EventNameKey], p["id"])
//	    return nil
//	})
//	if _, err := bus.Publish("session.created", eventbus.Details{"id": 42}); err != nil {
//	    log.Fatal(err)
//	}
//
// A process-wide registry is available through Default and the package-level
// Subscribe, SubscribeFunc, Publish and Clear helpers.
package eventbus
