package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

// recordedEvent is one entry in a replay file.
type recordedEvent struct {
	Name    string           `json:"name" yaml:"name"`
	Details eventbus.Details `json:"details,omitempty" yaml:"details,omitempty"`
}

func newReplayCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay FILE",
		Short: "Publish every event in a file, in order",
		Long: `Publish every event in a file, in order.

The file is either JSON lines, one {"name": ..., "details": {...}} object per
line (blank lines and // comments are ignored), or, with a .yaml or .yml
extension, a YAML list of the same objects.

Under the fail-fast policy replay stops at the first failing event. Under
collect every event is published and all failures are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := readEvents(opts.fs, args[0])
			if err != nil {
				return err
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			collect := s.router.Registry().Policy() == eventbus.Collect
			var result *multierror.Error
			for i, ev := range events {
				if err := s.router.Publish(ev.Name, ev.Details); err != nil {
					err = fmt.Errorf("event %d (%s): %w", i+1, ev.Name, err)
					if !collect {
						return err
					}
					result = multierror.Append(result, err)
				}
			}
			return result.ErrorOrNil()
		},
	}
}

func readEvents(fsys afero.Fs, path string) ([]recordedEvent, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var events []recordedEvent
		if err := yaml.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return events, validateEvents(path, events)
	default:
		events, err := readJSONLines(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return events, validateEvents(path, events)
	}
}

func readJSONLines(r io.Reader) ([]recordedEvent, error) {
	var events []recordedEvent
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(jsonc.ToJSON(scanner.Bytes()))
		if len(text) == 0 {
			continue
		}
		var ev recordedEvent
		if err := json.Unmarshal(text, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	return events, scanner.Err()
}

func validateEvents(path string, events []recordedEvent) error {
	for i, ev := range events {
		if ev.Name == "" {
			return fmt.Errorf("%s: event %d has no name", path, i+1)
		}
	}
	return nil
}
