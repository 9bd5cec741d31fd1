// Package testutils provides builders and a scripted scan adapter for
// exercising the device request state machine without a radio.
package testutils

import (
	"github.com/srg/blequest/internal/adapter"
)

// Candidate is a plain in-memory adapter.Advertisement for tests.
type Candidate struct {
	name        string
	address     string
	rssi        int
	services    []string
	serviceData []adapter.ServiceData
	manufData   []byte
	txPower     int
	connectable bool
}

func (c *Candidate) LocalName() string                  { return c.name }
func (c *Candidate) Services() []string                 { return c.services }
func (c *Candidate) ServiceData() []adapter.ServiceData { return c.serviceData }
func (c *Candidate) ManufacturerData() []byte           { return c.manufData }
func (c *Candidate) TxPowerLevel() int                  { return c.txPower }
func (c *Candidate) Connectable() bool                  { return c.connectable }
func (c *Candidate) RSSI() int                          { return c.rssi }
func (c *Candidate) Addr() string                       { return c.address }

// CandidateBuilder builds test candidates with a fluent API.
type CandidateBuilder struct {
	candidate Candidate
}

// NewCandidateBuilder creates a builder. Defaults: connectable, RSSI -50,
// no name, TX power unavailable (127).
func NewCandidateBuilder() *CandidateBuilder {
	return &CandidateBuilder{
		candidate: Candidate{
			rssi:        -50,
			txPower:     127,
			connectable: true,
		},
	}
}

// WithName sets the advertised local name.
func (b *CandidateBuilder) WithName(name string) *CandidateBuilder {
	b.candidate.name = name
	return b
}

// WithAddress sets the device address.
func (b *CandidateBuilder) WithAddress(addr string) *CandidateBuilder {
	b.candidate.address = addr
	return b
}

// WithRSSI sets the signal strength.
func (b *CandidateBuilder) WithRSSI(rssi int) *CandidateBuilder {
	b.candidate.rssi = rssi
	return b
}

// WithServices adds advertised service UUIDs. Any form bleuuid accepts can
// be used; the filter evaluator canonicalizes on its side.
func (b *CandidateBuilder) WithServices(uuids ...string) *CandidateBuilder {
	b.candidate.services = append(b.candidate.services, uuids...)
	return b
}

// WithServiceData adds an advertised service data entry.
func (b *CandidateBuilder) WithServiceData(uuid string, data []byte) *CandidateBuilder {
	b.candidate.serviceData = append(b.candidate.serviceData, adapter.ServiceData{UUID: uuid, Data: data})
	return b
}

// WithManufacturerData sets manufacturer-specific data.
func (b *CandidateBuilder) WithManufacturerData(data []byte) *CandidateBuilder {
	b.candidate.manufData = data
	return b
}

// WithTxPower sets the advertised transmission power.
func (b *CandidateBuilder) WithTxPower(power int) *CandidateBuilder {
	b.candidate.txPower = power
	return b
}

// WithConnectable sets whether the device accepts connections.
func (b *CandidateBuilder) WithConnectable(c bool) *CandidateBuilder {
	b.candidate.connectable = c
	return b
}

// Build returns the candidate.
func (b *CandidateBuilder) Build() *Candidate {
	c := b.candidate
	return &c
}
