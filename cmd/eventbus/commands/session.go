package commands

import (
	"context"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/telnet2/eventbus/internal/config"
	"github.com/telnet2/eventbus/internal/logging"
	"github.com/telnet2/eventbus/internal/router"
	"github.com/telnet2/eventbus/internal/sink"
)

// session is a router plus the goroutines echoing its tap topics.
type session struct {
	router *router.Router
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// openSession loads configuration and builds a router writing to the
// command's output. Tapped messages are echoed as "tap:<topic>" lines.
func (o *globalOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	r, err := router.Build(cfg,
		router.WithOutput(cmd.OutOrStdout()),
		router.WithTapAck(),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	s := &session{router: r, cancel: cancel}

	seen := make(map[string]bool)
	for _, route := range r.Routes() {
		topic := route.TapTopic()
		if route.Sink != config.SinkTap || seen[topic] {
			continue
		}
		seen[topic] = true
		if err := s.echo(ctx, topic, cmd.OutOrStdout()); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) echo(ctx context.Context, topic string, out io.Writer) error {
	messages, err := s.router.Taps().Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	printer := sink.Print(out, "tap:"+topic)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for msg := range messages {
			payload, err := sink.Decode(msg)
			if err == nil {
				err = printer.Receive(payload)
			}
			if err != nil {
				logging.Warn().Err(err).Str("topic", topic).Msg("tap echo failed")
			}
			msg.Ack()
		}
	}()
	return nil
}

// Close stops the echo goroutines and the router.
func (s *session) Close() {
	s.cancel()
	_ = s.router.Close()
	s.wg.Wait()
}
