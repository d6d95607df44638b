package check

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrUnknownRule is matched by every error about a rule key nobody registered.
var ErrUnknownRule = errors.New("unknown rule")

// UnknownRuleError names the key and the registered keys closest to it.
type UnknownRuleError struct {
	Key         string
	Suggestions []string
}

func (e *UnknownRuleError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown rule %q", e.Key)
	}
	return fmt.Sprintf("unknown rule %q (did you mean %s?)", e.Key, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownRuleError) Is(target error) bool { return target == ErrUnknownRule }

// Factory builds a check from its settings.
type Factory func(Params) (Check, error)

type entry struct {
	rule    Rule
	factory Factory
}

// Registry maps rule keys to their factories.
type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a rule. Registering a key twice is a programming error.
func (r *Registry) Register(rule Rule, factory Factory) {
	if rule.Key == "" {
		panic("check: rule without key")
	}
	if _, dup := r.entries[rule.Key]; dup {
		panic(fmt.Sprintf("check: rule %q registered twice", rule.Key))
	}
	r.entries[rule.Key] = entry{rule: rule, factory: factory}
}

// Keys lists the registered keys in order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rules lists the registered rules by key.
func (r *Registry) Rules() []Rule {
	keys := r.Keys()
	out := make([]Rule, len(keys))
	for i, k := range keys {
		out[i] = r.entries[k].rule
	}
	return out
}

func (r *Registry) Rule(key string) (Rule, bool) {
	e, ok := r.entries[key]
	return e.rule, ok
}

// New builds the check registered under key.
func (r *Registry) New(key string, params Params) (Check, error) {
	e, ok := r.entries[key]
	if !ok {
		return nil, &UnknownRuleError{Key: key, Suggestions: r.Suggest(key)}
	}
	c, err := e.factory(params)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", key, err)
	}
	return c, nil
}

// NewAll builds every registered rule with default settings, by key.
func (r *Registry) NewAll() ([]Check, error) {
	var out []Check
	for _, k := range r.Keys() {
		c, err := r.New(k, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Suggest ranks registered keys against a misspelt one, closest first, at
// most three.
func (r *Registry) Suggest(key string) []string {
	ranks := fuzzy.RankFindFold(key, r.Keys())
	if len(ranks) == 0 {
		// fall back to the key as a pattern for its own prefix
		for _, k := range r.Keys() {
			if len(key) >= 3 && strings.HasPrefix(strings.ToLower(k), strings.ToLower(key[:3])) {
				ranks = append(ranks, fuzzy.Rank{Target: k, Distance: len(k)})
			}
		}
	}
	sort.Sort(ranks)
	out := make([]string, 0, 3)
	for _, rk := range ranks {
		if len(out) == 3 {
			break
		}
		out = append(out, rk.Target)
	}
	return out
}
