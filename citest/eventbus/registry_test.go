package eventbus_test

import (
	"errors"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/eventbus/pkg/eventbus"
)

// spy records the payloads a listener receives.
type spy struct {
	calls []eventbus.Details
}

func (s *spy) Receive(p eventbus.Details) error {
	s.calls = append(s.calls, p)
	return nil
}

var _ = Describe("Registry", func() {
	const eventName = "aa123bb"

	var (
		bus      *eventbus.Registry
		listener *spy
	)

	BeforeEach(func() {
		bus = eventbus.Default()
		bus.Clear()
		listener = &spy{}
	})

	AfterEach(func() {
		bus.Clear()
	})

	Describe("Publish", func() {
		It("returns itself, to facilitate cascades", func() {
			got, err := bus.Publish(eventName, eventbus.Details{})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeIdenticalTo(bus))
		})

		It("passes the event name in the details", func() {
			bus.Subscribe(eventbus.Exact(eventName), listener)
			_, err := bus.Publish(eventName, eventbus.Details{})
			Expect(err).NotTo(HaveOccurred())
			Expect(listener.calls).To(Equal([]eventbus.Details{{"event_name": eventName}}))
		})

		It("accepts missing details", func() {
			bus.Subscribe(eventbus.Exact(eventName), listener)
			_, err := bus.Publish(eventName)
			Expect(err).NotTo(HaveOccurred())
			Expect(listener.calls).To(Equal([]eventbus.Details{{"event_name": eventName}}))
		})

		It("overwrites a caller-supplied event name", func() {
			bus.Subscribe(eventbus.Exact(eventName), listener)
			_, err := bus.Publish(eventName, eventbus.Details{"event_name": "other"})
			Expect(err).NotTo(HaveOccurred())
			Expect(listener.calls).To(HaveLen(1))
			Expect(listener.calls[0]).To(HaveKeyWithValue("event_name", eventName))
		})

		It("surfaces listener failures to the publisher", func() {
			boom := errors.New("boom")
			bus.SubscribeFunc(eventbus.Exact(eventName), func(eventbus.Details) error { return boom })
			bus.Subscribe(eventbus.Exact(eventName), listener)

			_, err := bus.Publish(eventName)
			Expect(err).To(MatchError(boom))
			Expect(listener.calls).To(BeEmpty())
		})
	})

	Describe("Subscribe", func() {
		It("returns itself, to facilitate cascades", func() {
			Expect(bus.Subscribe(eventbus.Exact(eventName), listener)).To(BeIdenticalTo(bus))
		})

		Context("when the listener is specific about the event name", func() {
			It("sends the event to the listener", func() {
				bus.Subscribe(eventbus.Exact(eventName), listener)
				_, err := bus.Publish(eventName, eventbus.Details{"a": 1, "b": 2})
				Expect(err).NotTo(HaveOccurred())
				Expect(listener.calls).To(Equal([]eventbus.Details{{"a": 1, "b": 2, "event_name": eventName}}))
			})
		})

		Context("when the listener uses a regex that matches", func() {
			It("sends the event to the listener", func() {
				bus.Subscribe(eventbus.Pattern(regexp.MustCompile(`123b`)), listener)
				_, err := bus.Publish(eventName, eventbus.Details{"a": 1, "b": 2})
				Expect(err).NotTo(HaveOccurred())
				Expect(listener.calls).To(Equal([]eventbus.Details{{"a": 1, "b": 2, "event_name": eventName}}))
			})
		})

		Context("when the listener listens for a different event", func() {
			It("does not send the event to the listener", func() {
				bus.Subscribe(eventbus.Exact("blah"), listener)
				_, err := bus.Publish(eventName, eventbus.Details{"a": 1, "b": 2, "event_name": eventName})
				Expect(err).NotTo(HaveOccurred())
				Expect(listener.calls).To(BeEmpty())
			})
		})

		Context("when the listener listens for a non-matching regex", func() {
			It("does not send the event to the listener", func() {
				bus.Subscribe(eventbus.Pattern(regexp.MustCompile(`123a`)), listener)
				_, err := bus.Publish(eventName, eventbus.Details{"a": 1, "b": 2, "event_name": eventName})
				Expect(err).NotTo(HaveOccurred())
				Expect(listener.calls).To(BeEmpty())
			})
		})

		Context("when the same listener subscribes twice", func() {
			It("receives the event twice", func() {
				m := eventbus.Exact(eventName)
				bus.Subscribe(m, listener).Subscribe(m, listener)
				_, err := bus.Publish(eventName)
				Expect(err).NotTo(HaveOccurred())
				Expect(listener.calls).To(HaveLen(2))
			})
		})
	})

	Describe("Clear", func() {
		It("removes all previous registrants", func() {
			bus.Subscribe(eventbus.Exact(eventName), listener)
			bus.Clear()
			_, err := bus.Publish(eventName, eventbus.Details{})
			Expect(err).NotTo(HaveOccurred())
			Expect(listener.calls).To(BeEmpty())
		})

		It("returns itself, to facilitate cascades", func() {
			Expect(bus.Clear()).To(BeIdenticalTo(bus))
		})
	})

	Describe("the package-level helpers", func() {
		It("operate on the default registry", func() {
			Expect(eventbus.Subscribe(eventbus.Expr(`^aa`), listener)).To(BeIdenticalTo(eventbus.Default()))
			got, err := eventbus.Publish(eventName)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeIdenticalTo(eventbus.Default()))
			Expect(listener.calls).To(HaveLen(1))
			Expect(eventbus.Clear()).To(BeIdenticalTo(eventbus.Default()))
		})
	})
})
