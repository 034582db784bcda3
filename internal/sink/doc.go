// Package sink provides the eventbus.Listener implementations that routes
// deliver to: terminal output, structured logs, jq filtering and a watermill
// tap for handing payloads to other consumers.
package sink
