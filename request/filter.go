package request

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/blequest/internal/adapter"
	"github.com/srg/blequest/internal/bleuuid"
)

// evaluateFilters decides whether one candidate passes a non-empty filter
// list. It is pure: no I/O and no mutation of the candidate.
//
// A single criterion matches only if ALL of its present sub-conditions hold;
// in particular its service list is a required subset of the candidate's
// advertised services, not an intersection. The list as a whole matches when
// ANY criterion matches, and the service lists of every matching criterion
// are unioned (first occurrence order, duplicates removed) into the returned
// matched set.
func evaluateFilters(filters []compiledFilter, c adapter.Advertisement) (bool, []string) {
	advertised := advertisedSet(c)
	name := c.LocalName()

	matched := false
	services := orderedmap.New[string, struct{}]()

	for _, f := range filters {
		if !criterionMatches(f, name, advertised) {
			continue
		}
		matched = true
		for _, s := range f.services {
			services.Set(s, struct{}{})
		}
	}

	if !matched {
		return false, nil
	}

	result := make([]string, 0, services.Len())
	for pair := services.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Key)
	}
	return true, result
}

func criterionMatches(f compiledFilter, name string, advertised map[string]struct{}) bool {
	if f.name != nil && name != *f.name {
		return false
	}
	if f.namePrefix != nil {
		// A candidate with no name never matches a prefix condition.
		if name == "" || !strings.HasPrefix(name, *f.namePrefix) {
			return false
		}
	}
	for _, s := range f.services {
		if _, ok := advertised[s]; !ok {
			return false
		}
	}
	return true
}

// advertisedSet canonicalizes the candidate's advertised service UUIDs.
// Identifiers the backend reports in a form bleuuid cannot parse are skipped
// rather than failing the whole candidate.
func advertisedSet(c adapter.Advertisement) map[string]struct{} {
	raw := c.Services()
	set := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		if canonical, err := bleuuid.Canonical(s); err == nil {
			set[canonical] = struct{}{}
		}
	}
	return set
}
