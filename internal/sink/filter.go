package sink

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

type filter struct {
	expr string
	code *gojq.Code
	next eventbus.Listener
}

// Filter wraps next with a jq expression evaluated against each payload.
//
// Every value the expression emits is forwarded in order: objects as they
// are, anything else as {"value": v}. null and false are dropped, so
// select(...) works as a predicate. The event name is always restored on the
// forwarded payload.
func Filter(expr string, next eventbus.Listener) (eventbus.Listener, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("jq: filter parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq: compile error: %w", err)
	}
	return &filter{expr: expr, code: code, next: next}, nil
}

func (f *filter) Receive(payload eventbus.Details) error {
	input, err := normalize(payload)
	if err != nil {
		return fmt.Errorf("jq %q: %w", f.expr, err)
	}

	name := payload.EventName()
	iter := f.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("jq %q: execution error: %w", f.expr, err)
		}

		var out eventbus.Details
		switch val := v.(type) {
		case nil:
			continue
		case bool:
			if !val {
				continue
			}
			out = eventbus.Details{"value": val}
		case map[string]any:
			out = eventbus.Details(val)
		default:
			out = eventbus.Details{"value": val}
		}
		out[eventbus.EventNameKey] = name

		if err := f.next.Receive(out); err != nil {
			return err
		}
	}
}

// normalize converts payload values to the JSON types gojq understands.
func normalize(payload eventbus.Details) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
