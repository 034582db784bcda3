package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	nameColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.FgHiBlack)
)

type printer struct {
	mu    sync.Mutex
	w     io.Writer
	label string
}

// Print returns a listener that writes one line per event to w:
//
//	label › event.name {"key":"value"}
//
// The event name is not repeated inside the JSON object. Colors follow
// color.NoColor.
func Print(w io.Writer, label string) eventbus.Listener {
	return &printer{w: w, label: label}
}

func (p *printer) Receive(payload eventbus.Details) error {
	name := payload.EventName()
	rest := payload.Clone()
	delete(rest, eventbus.EventNameKey)

	data, err := json.Marshal(rest)
	if err != nil {
		return fmt.Errorf("print %s: %w", p.label, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = fmt.Fprintf(p.w, "%s %s %s\n",
		labelColor.Sprint(p.label+" ›"),
		nameColor.Sprint(name),
		dimColor.Sprint(string(data)))
	return err
}
