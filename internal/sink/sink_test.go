package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// collect is a listener that records what it receives.
type collect struct {
	got []eventbus.Details
	err error
}

func (c *collect) Receive(p eventbus.Details) error {
	c.got = append(c.got, p)
	return c.err
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	l := Print(&buf, "sessions")

	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "session.created", "b": 2, "a": "x"}))
	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "session.deleted"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `sessions › session.created {"a":"x","b":2}`, lines[0])
	assert.Equal(t, `sessions › session.deleted {}`, lines[1])
}

func TestPrint_UnencodableValue(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, "x").Receive(eventbus.Details{eventbus.EventNameKey: "e", "fn": func() {}})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	require.NoError(t, Log(logger, "audit").Receive(eventbus.Details{eventbus.EventNameKey: "user.login", "user": "ann"}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["route"])
	assert.Equal(t, "user.login", entry["event"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, map[string]any{"event_name": "user.login", "user": "ann"}, entry["details"])
}

func TestFilter_Object(t *testing.T) {
	next := &collect{}
	l, err := Filter(`{user}`, next)
	require.NoError(t, err)

	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "user.login", "user": "ann", "secret": "x"}))

	require.Len(t, next.got, 1)
	assert.Equal(t, eventbus.Details{"user": "ann", eventbus.EventNameKey: "user.login"}, next.got[0])
}

func TestFilter_Select(t *testing.T) {
	next := &collect{}
	l, err := Filter(`select(.size > 10)`, next)
	require.NoError(t, err)

	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "upload", "size": 5}))
	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "upload", "size": 50}))

	require.Len(t, next.got, 1)
	assert.Equal(t, float64(50), next.got[0]["size"])
}

func TestFilter_ScalarsAndFalsy(t *testing.T) {
	next := &collect{}
	l, err := Filter(`.a, .b, null, false, true`, next)
	require.NoError(t, err)

	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "e", "a": 1, "b": "two"}))

	require.Len(t, next.got, 3)
	assert.Equal(t, eventbus.Details{"value": float64(1), eventbus.EventNameKey: "e"}, next.got[0])
	assert.Equal(t, eventbus.Details{"value": "two", eventbus.EventNameKey: "e"}, next.got[1])
	assert.Equal(t, eventbus.Details{"value": true, eventbus.EventNameKey: "e"}, next.got[2])
}

func TestFilter_EventNameCannotBeRewritten(t *testing.T) {
	next := &collect{}
	l, err := Filter(`.event_name = "forged"`, next)
	require.NoError(t, err)

	require.NoError(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "real"}))
	require.Len(t, next.got, 1)
	assert.Equal(t, "real", next.got[0].EventName())
}

func TestFilter_Errors(t *testing.T) {
	_, err := Filter(`{`, &collect{})
	assert.Error(t, err)

	_, err = Filter(`$undefined`, &collect{})
	assert.Error(t, err)

	l, err := Filter(`error("nope")`, &collect{})
	require.NoError(t, err)
	assert.Error(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "e"}))

	boom := errors.New("boom")
	l, err = Filter(`.`, &collect{err: boom})
	require.NoError(t, err)
	assert.ErrorIs(t, l.Receive(eventbus.Details{eventbus.EventNameKey: "e"}), boom)
}

func TestTap(t *testing.T) {
	ch := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer ch.Close()

	messages, err := ch.Subscribe(context.Background(), "audit")
	require.NoError(t, err)

	payload := eventbus.Details{eventbus.EventNameKey: "user.login", "user": "ann"}
	require.NoError(t, Tap(ch, "audit").Receive(payload))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "user.login", msg.Metadata.Get(MetadataEventName))
		assert.NotEmpty(t, msg.UUID)

		got, err := Decode(msg)
		require.NoError(t, err)
		assert.Equal(t, eventbus.Details{eventbus.EventNameKey: "user.login", "user": "ann"}, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tapped message")
	}
}

func TestTap_ClosedPublisher(t *testing.T) {
	ch := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	require.NoError(t, ch.Close())

	err := Tap(ch, "audit").Receive(eventbus.Details{eventbus.EventNameKey: "e"})
	assert.Error(t, err)
}
