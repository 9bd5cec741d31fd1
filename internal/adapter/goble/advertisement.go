package goble

import (
	ble "github.com/go-ble/ble"

	"github.com/srg/blequest/internal/adapter"
)

// bleAdvertisement wraps ble.Advertisement to implement adapter.Advertisement.
type bleAdvertisement struct {
	adv ble.Advertisement
}

// wrapAdvertisement adapts a raw go-ble advertisement to the adapter contract.
func wrapAdvertisement(adv ble.Advertisement) adapter.Advertisement {
	return &bleAdvertisement{adv: adv}
}

func (a *bleAdvertisement) LocalName() string        { return a.adv.LocalName() }
func (a *bleAdvertisement) ManufacturerData() []byte { return a.adv.ManufacturerData() }
func (a *bleAdvertisement) TxPowerLevel() int        { return a.adv.TxPowerLevel() }
func (a *bleAdvertisement) Connectable() bool        { return a.adv.Connectable() }
func (a *bleAdvertisement) RSSI() int                { return a.adv.RSSI() }
func (a *bleAdvertisement) Addr() string             { return a.adv.Addr().String() }

func (a *bleAdvertisement) Services() []string {
	bleServices := a.adv.Services()
	result := make([]string, len(bleServices))
	for i, svc := range bleServices {
		result[i] = svc.String()
	}
	return result
}

func (a *bleAdvertisement) ServiceData() []adapter.ServiceData {
	bleServiceData := a.adv.ServiceData()
	result := make([]adapter.ServiceData, len(bleServiceData))
	for i, sd := range bleServiceData {
		result[i] = adapter.ServiceData{UUID: sd.UUID.String(), Data: sd.Data}
	}
	return result
}

// Unwrap exposes the raw ble.Advertisement for callers that need backend
// specifics beyond the adapter contract.
func (a *bleAdvertisement) Unwrap() ble.Advertisement { return a.adv }
