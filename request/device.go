package request

import (
	"sort"

	"github.com/srg/blequest/internal/adapter"
	"github.com/srg/blequest/internal/bleuuid"
)

// DiscoveredDevice is the immutable result of an accepted device request.
// It outlives the request session that produced it; further interaction with
// the device (connecting, GATT traversal) is the caller's responsibility.
type DiscoveredDevice struct {
	id                 string
	name               string
	address            string
	rssi               int
	txPower            *int
	connectable        bool
	advertisedServices []string
	allowedServices    []string
	adv                adapter.Advertisement
	origin             *Controller
}

// newDiscoveredDevice snapshots a candidate at the moment of acceptance.
func newDiscoveredDevice(origin *Controller, adv adapter.Advertisement, allowed []string) *DiscoveredDevice {
	d := &DiscoveredDevice{
		id:              adv.Addr(),
		name:            adv.LocalName(),
		address:         adv.Addr(),
		rssi:            adv.RSSI(),
		connectable:     adv.Connectable(),
		allowedServices: allowed,
		adv:             adv,
		origin:          origin,
	}

	for _, s := range adv.Services() {
		if canonical, err := bleuuid.Canonical(s); err == nil {
			d.advertisedServices = append(d.advertisedServices, canonical)
		}
	}
	sort.Strings(d.advertisedServices)

	if tx := adv.TxPowerLevel(); tx != 127 { // 127 means TX power not available
		txPower := tx
		d.txPower = &txPower
	}

	return d
}

func (d *DiscoveredDevice) ID() string      { return d.id }
func (d *DiscoveredDevice) Address() string { return d.address }
func (d *DiscoveredDevice) RSSI() int       { return d.rssi }
func (d *DiscoveredDevice) TxPower() *int   { return d.txPower }

// Name returns the advertised name, falling back to the address for
// anonymous devices.
func (d *DiscoveredDevice) Name() string {
	if d.name == "" {
		return d.address
	}
	return d.name
}

// LocalName returns the advertised name exactly as received, possibly empty.
func (d *DiscoveredDevice) LocalName() string { return d.name }

func (d *DiscoveredDevice) IsConnectable() bool { return d.connectable }

// AdvertisedServices returns the canonical UUIDs the device advertised,
// sorted.
func (d *DiscoveredDevice) AdvertisedServices() []string { return d.advertisedServices }

// AllowedServices returns the union of the matched criterion services and
// the request's optional services, in stable first-occurrence order. This is
// the service scope a later connection is limited to.
func (d *DiscoveredDevice) AllowedServices() []string { return d.allowedServices }

// Advertisement returns the backend's raw candidate record as an opaque
// handle for whatever interaction follows discovery.
func (d *DiscoveredDevice) Advertisement() adapter.Advertisement { return d.adv }

// Controller returns the controller whose request discovered this device,
// scoping any later connection back to its originating session owner.
func (d *DiscoveredDevice) Controller() *Controller { return d.origin }
