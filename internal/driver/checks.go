package driver

import (
	"xqlint/internal/check"
)

// checkSet builds a fresh set of checks for every file, so no state leaks from
// a file that failed halfway.
type checkSet struct {
	registry *check.Registry
	keys     []string
	params   map[string]check.Params
}

// newCheckSet validates the selection once up front; an unknown key or bad
// parameters fail the run before any file is read.
func newCheckSet(r *check.Registry, keys []string, params map[string]check.Params) (*checkSet, error) {
	if len(keys) == 0 {
		keys = r.Keys()
	}
	for key := range params {
		if _, ok := r.Rule(key); !ok {
			return nil, &check.UnknownRuleError{Key: key, Suggestions: r.Suggest(key)}
		}
	}
	set := &checkSet{registry: r, keys: keys, params: params}
	if _, err := set.build(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *checkSet) build() ([]check.Check, error) {
	checks := make([]check.Check, 0, len(s.keys))
	for _, key := range s.keys {
		c, err := s.registry.New(key, s.params[key])
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, nil
}
