package request

import (
	"sync/atomic"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"

	"github.com/srg/blequest/internal/adapter"
)

// AvailabilityNotifier republishes the adapter's enabled/disabled signal to
// any number of listeners. It subscribes to the adapter exactly once, at
// construction, and holds no other state.
type AvailabilityNotifier struct {
	logger    *logrus.Logger
	listeners *hashmap.Map[uint64, func(bool)]
	nextID    atomic.Uint64
	cancel    func()
}

// NewAvailabilityNotifier creates a notifier bound to the given adapter.
func NewAvailabilityNotifier(a adapter.Adapter, logger *logrus.Logger) *AvailabilityNotifier {
	if logger == nil {
		logger = logrus.New()
	}
	n := &AvailabilityNotifier{
		logger:    logger,
		listeners: hashmap.New[uint64, func(bool)](),
	}
	n.cancel = a.OnEnabledChanged(n.publish)
	return n
}

// Subscribe registers a listener for availability changes and returns a
// function that removes it. Listeners are invoked verbatim with the
// adapter's reported state.
func (n *AvailabilityNotifier) Subscribe(fn func(enabled bool)) (cancel func()) {
	id := n.nextID.Add(1)
	n.listeners.Set(id, fn)
	return func() {
		n.listeners.Del(id)
	}
}

// Close drops the adapter subscription. Registered listeners receive no
// further notifications.
func (n *AvailabilityNotifier) Close() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

func (n *AvailabilityNotifier) publish(enabled bool) {
	n.logger.WithField("enabled", enabled).Debug("Adapter availability changed")
	n.listeners.Range(func(_ uint64, fn func(bool)) bool {
		fn(enabled)
		return true
	})
}
