package request

import (
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/blequest/internal/bleuuid"
)

// DefaultScanTime is the scan deadline applied when Options.ScanTime is zero.
const DefaultScanTime = 10240 * time.Millisecond

// Filter is one acceptance criterion. A candidate matches a Filter only if
// every present field holds: exact (case-sensitive) name equality, name
// prefix equality, and advertisement of every listed service. A filter list
// matches when any single Filter matches.
type Filter struct {
	// Name requires exact name equality. A candidate with no advertised
	// name only matches when Name is the empty string.
	Name *string

	// NamePrefix requires the candidate name to start with the prefix.
	// A candidate with no advertised name never matches. Must be non-empty
	// when set.
	NamePrefix *string

	// Services lists service UUIDs (any form accepted by bleuuid) that must
	// ALL be advertised by the candidate.
	Services []string
}

// DeviceFoundFunc lets the caller decide per matching candidate whether the
// request is satisfied. Returning true accepts the candidate immediately;
// alternatively the callback may retain accept and invoke it later. Both
// paths converge on the same single-shot completion, so calling accept after
// the request has already completed is a no-op.
type DeviceFoundFunc func(dev *DiscoveredDevice, accept func()) bool

// Options configures a device request.
//
// At least one of AcceptAllDevices, DeviceFound, or a non-empty Filters list
// must be supplied; this is validated before any scan starts.
type Options struct {
	// AcceptAllDevices makes every candidate match trivially, with an empty
	// matched-service set.
	AcceptAllDevices bool

	// Filters is the ordered list of acceptance criteria (disjunction).
	Filters []Filter

	// OptionalServices lists additional service UUIDs to union into the
	// accepted device's allowed-service set.
	OptionalServices []string

	// ScanTime bounds the scan; zero means DefaultScanTime.
	ScanTime time.Duration

	// DeviceFound, when set, is consulted for every matching candidate.
	DeviceFound DeviceFoundFunc
}

// compiledFilter is a Filter with its service list canonicalized.
type compiledFilter struct {
	name       *string
	namePrefix *string
	services   []string
}

// compiledRequest is the validated, normalized form of Options.
type compiledRequest struct {
	acceptAll   bool
	filters     []compiledFilter
	optional    []string
	allowlist   []string
	scanTime    time.Duration
	deviceFound DeviceFoundFunc
}

// compileOptions validates opts and derives the normalized filter set and
// the adapter-level service allowlist. Validation is purely static; no
// adapter interaction happens here.
func compileOptions(opts *Options) (*compiledRequest, error) {
	if opts == nil {
		opts = &Options{}
	}

	if !opts.AcceptAllDevices && opts.DeviceFound == nil && len(opts.Filters) == 0 {
		return nil, &InvalidOptionsError{
			Problem: NoFilters,
			Msg:     "at least one filter is required unless AcceptAllDevices is set",
		}
	}

	cr := &compiledRequest{
		acceptAll:   opts.AcceptAllDevices,
		scanTime:    opts.ScanTime,
		deviceFound: opts.DeviceFound,
	}
	if cr.scanTime <= 0 {
		cr.scanTime = DefaultScanTime
	}

	// The allowlist keeps stable first-occurrence order across all criteria.
	allow := orderedmap.New[string, struct{}]()

	for i, f := range opts.Filters {
		if f.Name == nil && f.NamePrefix == nil && len(f.Services) == 0 {
			return nil, &InvalidOptionsError{
				Problem: EmptyFilter,
				Msg:     fmt.Sprintf("filter %d sets none of name, namePrefix or services", i),
			}
		}
		if f.NamePrefix != nil && *f.NamePrefix == "" {
			return nil, &InvalidOptionsError{
				Problem: EmptyNamePrefix,
				Msg:     fmt.Sprintf("filter %d has an empty namePrefix", i),
			}
		}

		services, err := bleuuid.CanonicalAll(f.Services)
		if err != nil {
			return nil, &InvalidOptionsError{
				Problem: BadServiceUUID,
				Msg:     fmt.Sprintf("filter %d: %v", i, err),
			}
		}
		for _, s := range services {
			allow.Set(s, struct{}{})
		}

		cr.filters = append(cr.filters, compiledFilter{
			name:       f.Name,
			namePrefix: f.NamePrefix,
			services:   services,
		})
	}

	optional, err := bleuuid.CanonicalAll(opts.OptionalServices)
	if err != nil {
		return nil, &InvalidOptionsError{
			Problem: BadServiceUUID,
			Msg:     fmt.Sprintf("optionalServices: %v", err),
		}
	}
	cr.optional = dedupeOrdered(optional)

	for pair := allow.Oldest(); pair != nil; pair = pair.Next() {
		cr.allowlist = append(cr.allowlist, pair.Key)
	}

	return cr, nil
}

// dedupeOrdered removes duplicates keeping first-occurrence order.
func dedupeOrdered(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	om := orderedmap.New[string, struct{}]()
	for _, id := range ids {
		om.Set(id, struct{}{})
	}
	result := make([]string, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Key)
	}
	return result
}
