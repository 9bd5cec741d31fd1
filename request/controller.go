// Package request turns an unbounded BLE scan stream into a single resolved
// device. A Controller admits exactly one outstanding request at a time,
// re-checks every candidate against the caller's filters, and guarantees the
// underlying scan is torn down on every exit path: match, deadline, or
// cancellation.
package request

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srg/blequest/internal/adapter"
	"github.com/srg/blequest/internal/ringchan"
)

// sessionState tracks the single in-flight request's lifecycle.
type sessionState int

const (
	// stateStarting: scan requested, waiting for the backend's confirmation.
	stateStarting sessionState = iota
	// stateScanning: candidates are being evaluated against the deadline.
	stateScanning
	// stateCompleting: outcome decided, scan teardown in progress.
	stateCompleting
)

// outcome is the single resolution of one request.
type outcome struct {
	dev *DiscoveredDevice
	err error
}

// session is the state of one in-flight request. It exists only between
// admission and stop confirmation; a nil Controller.session means idle.
type session struct {
	state    sessionState
	req      *compiledRequest
	deadline *time.Timer
	result   chan outcome
	matches  int
}

// Controller owns the lifecycle of exactly one outstanding device request
// over an injected scan adapter. Multiple Controllers sharing one adapter
// share the radio; admission is per Controller.
type Controller struct {
	adapter  adapter.Adapter
	logger   *logrus.Logger
	events   *ringchan.RingChannel[CandidateEvent]
	notifier *AvailabilityNotifier

	mu      sync.Mutex
	session *session
}

// NewController creates a Controller bound to the given adapter. A nil
// logger falls back to a default logrus logger.
func NewController(a adapter.Adapter, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.New()
	}
	c := &Controller{
		adapter: a,
		logger:  logger,
		events:  ringchan.New[CandidateEvent](100),
	}
	c.notifier = NewAvailabilityNotifier(a, logger)
	return c
}

// Availability reports whether the adapter's radio is currently usable. It
// never interacts with any scan.
func (c *Controller) Availability(ctx context.Context) (bool, error) {
	return c.adapter.Enabled(ctx)
}

// OnAvailabilityChanged subscribes to adapter enabled/disabled transitions.
// The returned function cancels the subscription.
func (c *Controller) OnAvailabilityChanged(fn func(enabled bool)) (cancel func()) {
	return c.notifier.Subscribe(fn)
}

// Events returns a bounded feed of per-candidate evaluation outcomes for
// observers such as progress displays. Slow consumers lose oldest events
// rather than stalling candidate delivery.
func (c *Controller) Events() <-chan CandidateEvent {
	return c.events.C()
}

// Close releases the availability subscription and closes the Events feed.
// It does not cancel an in-flight request; callers must not Close a
// Controller whose request is still pending.
func (c *Controller) Close() {
	c.notifier.Close()
	c.events.Close()
}

// RequestDevice runs one device discovery request to completion.
//
// It validates opts, derives the adapter allowlist, starts the scan and
// blocks until the first accepted match, the scan deadline, cancellation, or
// an adapter failure. Whatever the exit path, the adapter's scan has been
// stopped and confirmed stopped before RequestDevice returns (except for
// pre-scan failures, which have nothing to tear down).
func (c *Controller) RequestDevice(ctx context.Context, opts *Options) (*DiscoveredDevice, error) {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return nil, ErrRequestInProgress
	}

	req, err := compileOptions(opts)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	s := &session{
		state:  stateStarting,
		req:    req,
		result: make(chan outcome, 1),
	}
	c.session = s
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"filters":   len(req.filters),
		"allowlist": req.allowlist,
		"scan_time": req.scanTime,
	}).Info("Starting device request")

	cb := adapter.Callbacks{
		OnStarted:   func() { c.scanStarted(s) },
		OnCandidate: func(adv adapter.Advertisement) { c.handleCandidate(s, adv) },
		OnError:     func(err error) { c.finish(s, outcome{err: &AdapterError{Op: "scan", Err: err}}) },
	}

	if err := c.adapter.StartScan(req.allowlist, cb); err != nil {
		// The scan never started; there is no partial state to unwind.
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		return nil, &AdapterError{Op: "start", Err: err}
	}

	select {
	case out := <-s.result:
		return out.dev, out.err
	case <-ctx.Done():
		c.finish(s, outcome{err: ctx.Err()})
		out := <-s.result
		return out.dev, out.err
	}
}

// CancelRequest aborts the in-flight request, if any, and blocks until the
// adapter confirms the scan has stopped. A pending RequestDevice call is
// completed with ErrRequestCancelled. Idempotent: with no request in flight
// it is a no-op, and repeated calls never stop the adapter more than once.
func (c *Controller) CancelRequest() error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	c.finish(s, outcome{err: ErrRequestCancelled})
	return nil
}

// scanStarted transitions the session to scanning and arms the deadline.
func (c *Controller) scanStarted(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s || s.state != stateStarting {
		return
	}
	s.state = stateScanning
	s.deadline = time.AfterFunc(s.req.scanTime, func() {
		c.finish(s, outcome{err: ErrNoDevicesFound})
	})
	c.logger.WithField("deadline", s.req.scanTime).Debug("Scan confirmed started")
}

// handleCandidate evaluates one delivered candidate. Candidates arriving for
// a superseded or completing session are dropped.
func (c *Controller) handleCandidate(s *session, adv adapter.Advertisement) {
	c.mu.Lock()

	if c.session != s || s.state != stateScanning {
		c.mu.Unlock()
		return
	}

	var matchedServices []string
	if len(s.req.filters) > 0 {
		matched, services := evaluateFilters(s.req.filters, adv)
		if !matched {
			c.mu.Unlock()
			c.events.Send(CandidateEvent{
				Type:    EventObserved,
				Address: adv.Addr(),
				Name:    adv.LocalName(),
				RSSI:    adv.RSSI(),
			})
			return
		}
		matchedServices = services
	}
	// Accept-all and callback-only requests match trivially with an empty
	// matched-service set.

	s.matches++
	allowed := dedupeOrdered(append(matchedServices, s.req.optional...))
	dev := newDiscoveredDevice(c, adv, allowed)
	deviceFound := s.req.deviceFound

	c.mu.Unlock()

	c.events.Send(CandidateEvent{
		Type:            EventMatched,
		Address:         dev.Address(),
		Name:            dev.LocalName(),
		RSSI:            dev.RSSI(),
		MatchedServices: matchedServices,
	})

	if deviceFound != nil {
		// Synchronous true and a later accept() call converge on finish,
		// which consumes the session at most once.
		accept := func() { c.finish(s, outcome{dev: dev}) }
		if deviceFound(dev, accept) {
			accept()
		}
		return
	}

	// No selection callback: first accepted match wins.
	c.finish(s, outcome{dev: dev})
}

// finish is the single completion entry point. The first caller moves the
// session to completing, stops the scan, waits for the stop confirmation,
// resets to idle and resolves the pending request; every later caller
// observes completing (or a fresh session) and no-ops. This makes the race
// between a match and the deadline an explicit transition: the adapter's
// StopScan runs at most once per session.
func (c *Controller) finish(s *session, out outcome) {
	c.mu.Lock()
	if c.session != s || s.state == stateCompleting {
		c.mu.Unlock()
		return
	}
	s.state = stateCompleting
	if s.deadline != nil {
		s.deadline.Stop()
	}
	matches := s.matches
	c.mu.Unlock()

	if err := c.adapter.StopScan(); err != nil {
		c.logger.WithError(err).Warn("Failed to stop scan during request completion")
	}

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if out.dev != nil {
		c.events.Send(CandidateEvent{
			Type:            EventAccepted,
			Address:         out.dev.Address(),
			Name:            out.dev.LocalName(),
			RSSI:            out.dev.RSSI(),
			MatchedServices: out.dev.AllowedServices(),
		})
		c.logger.WithFields(logrus.Fields{
			"device":  out.dev.Name(),
			"address": out.dev.Address(),
		}).Info("Device request resolved")
	} else {
		c.logger.WithError(out.err).WithField("matches", matches).Info("Device request finished without a device")
	}

	s.result <- out
}
