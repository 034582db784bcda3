package sink

import (
	"github.com/rs/zerolog"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

// Log returns a listener that writes each event as an info-level log entry
// with the payload under "details".
func Log(logger zerolog.Logger, label string) eventbus.Listener {
	return eventbus.ListenerFunc(func(payload eventbus.Details) error {
		logger.Info().
			Str("route", label).
			Str("event", payload.EventName()).
			Interface("details", map[string]any(payload)).
			Msg("event")
		return nil
	})
}
