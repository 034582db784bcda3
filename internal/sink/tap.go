package sink

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/oklog/ulid/v2"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

// MetadataEventName is the watermill metadata key carrying the event name.
const MetadataEventName = "event_name"

// Tap returns a listener that forwards each payload as a JSON watermill
// message on topic. Whether Receive waits for consumers depends on pub.
func Tap(pub message.Publisher, topic string) eventbus.Listener {
	return eventbus.ListenerFunc(func(payload eventbus.Details) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("tap %s: %w", topic, err)
		}

		msg := message.NewMessage(ulid.Make().String(), data)
		msg.Metadata.Set(MetadataEventName, payload.EventName())

		if err := pub.Publish(topic, msg); err != nil {
			return fmt.Errorf("tap %s: %w", topic, err)
		}
		return nil
	})
}

// Decode parses a message produced by Tap back into a payload.
func Decode(msg *message.Message) (eventbus.Details, error) {
	var payload eventbus.Details
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
