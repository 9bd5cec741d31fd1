package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/blequest/internal/bleuuid"
	"github.com/srg/blequest/internal/testutils"
)

func strptr(s string) *string { return &s }

// compile is a test helper that compiles options and fails on error.
func compile(t *testing.T, opts *Options) *compiledRequest {
	t.Helper()
	req, err := compileOptions(opts)
	require.NoError(t, err, "options MUST compile")
	return req
}

// TestFilterServicesAreRequiredSubset verifies that a criterion's service
// list is a conjunction: EVERY listed service must be advertised.
func TestFilterServicesAreRequiredSubset(t *testing.T) {
	// Candidate advertises {A, B}; criterion requires [A, C]. C is missing,
	// so the criterion MUST NOT match even though A is present.
	candidate := testutils.NewCandidateBuilder().
		WithAddress("AA:BB:CC:DD:EE:FF").
		WithServices("180a", "180b").
		Build()

	req := compile(t, &Options{
		Filters: []Filter{{Services: []string{"180a", "180c"}}},
	})

	matched, services := evaluateFilters(req.filters, candidate)
	assert.False(t, matched, "partial service coverage MUST NOT match")
	assert.Nil(t, services)

	// With the full subset advertised the criterion matches.
	req = compile(t, &Options{
		Filters: []Filter{{Services: []string{"180a", "180b"}}},
	})
	matched, services = evaluateFilters(req.filters, candidate)
	assert.True(t, matched, "full service coverage MUST match")
	assert.Equal(t, []string{bleuuid.From16(0x180a), bleuuid.From16(0x180b)}, services)
}

// TestFilterDisjunctionAcrossCriteria verifies that any single matching
// criterion passes the candidate.
func TestFilterDisjunctionAcrossCriteria(t *testing.T) {
	candidate := testutils.NewCandidateBuilder().
		WithAddress("AA:BB:CC:DD:EE:FF").
		WithName("Thermo").
		WithServices("1809").
		Build()

	req := compile(t, &Options{
		Filters: []Filter{
			{Name: strptr("SomethingElse")},
			{Services: []string{"health_thermometer"}},
		},
	})

	matched, services := evaluateFilters(req.filters, candidate)
	assert.True(t, matched, "one matching criterion MUST pass the candidate")
	assert.Equal(t, []string{bleuuid.From16(0x1809)}, services)
}

// TestFilterServiceAccumulationAcrossMatchingCriteria verifies that service
// lists from every matching criterion union into the matched set, even when
// one of them matched on name alone.
func TestFilterServiceAccumulationAcrossMatchingCriteria(t *testing.T) {
	candidate := testutils.NewCandidateBuilder().
		WithAddress("AA:BB:CC:DD:EE:FF").
		WithName("HR Strap").
		WithServices("180d", "180f").
		Build()

	req := compile(t, &Options{
		Filters: []Filter{
			{Name: strptr("HR Strap")},                // matches, contributes nothing
			{Services: []string{"180d"}},              // matches, contributes 180d
			{Services: []string{"180f", "180d"}},      // matches, contributes 180f
			{Services: []string{"1810"}},              // no match, contributes nothing
			{NamePrefix: strptr("ZZZ")},               // no match
		},
	})

	matched, services := evaluateFilters(req.filters, candidate)
	assert.True(t, matched)
	assert.Equal(t, []string{bleuuid.From16(0x180d), bleuuid.From16(0x180f)}, services,
		"matched sets MUST union in first-occurrence order without duplicates")
}

// TestFilterNameSemantics verifies exact-name and prefix matching.
func TestFilterNameSemantics(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		candidate *testutils.Candidate
		match     bool
	}{
		{
			name:      "exact name matches",
			filter:    Filter{Name: strptr("Pixel Buds")},
			candidate: testutils.NewCandidateBuilder().WithAddress("A").WithName("Pixel Buds").Build(),
			match:     true,
		},
		{
			name:      "exact name is case sensitive",
			filter:    Filter{Name: strptr("pixel buds")},
			candidate: testutils.NewCandidateBuilder().WithAddress("A").WithName("Pixel Buds").Build(),
			match:     false,
		},
		{
			name:      "prefix matches",
			filter:    Filter{NamePrefix: strptr("Pixel")},
			candidate: testutils.NewCandidateBuilder().WithAddress("A").WithName("Pixel Buds").Build(),
			match:     true,
		},
		{
			name:      "prefix does not match mid-name",
			filter:    Filter{NamePrefix: strptr("Buds")},
			candidate: testutils.NewCandidateBuilder().WithAddress("A").WithName("Pixel Buds").Build(),
			match:     false,
		},
		{
			name:      "unnamed candidate never matches a prefix",
			filter:    Filter{NamePrefix: strptr("P")},
			candidate: testutils.NewCandidateBuilder().WithAddress("A").Build(),
			match:     false,
		},
		{
			name:      "all present conditions must hold within one criterion",
			filter:    Filter{Name: strptr("Pixel Buds"), Services: []string{"180f"}},
			candidate: testutils.NewCandidateBuilder().WithAddress("A").WithName("Pixel Buds").Build(),
			match:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := compile(t, &Options{Filters: []Filter{tt.filter}})
			matched, _ := evaluateFilters(req.filters, tt.candidate)
			assert.Equal(t, tt.match, matched)
		})
	}
}
