package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrDuplicateRule = errors.New("rule already registered")
	ErrUnknownRule   = errors.New("unknown rule")
)

// Registry holds the available rules together with the user's enable and
// severity choices.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	disabled map[string]bool
	severity map[string]Severity
}

func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]Rule),
		disabled: make(map[string]bool),
		severity: make(map[string]Severity),
	}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) Register(rule Rule) error {
	name := key(rule.Meta().Name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownRule)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}
	r.rules[name] = rule
	return nil
}

func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[key(name)]
	return rule, ok
}

// Disable turns off the named rules. Unknown names are reported together.
func (r *Registry) Disable(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var unknown []string
	for _, n := range names {
		k := key(n)
		if _, ok := r.rules[k]; !ok {
			unknown = append(unknown, n)
			continue
		}
		r.disabled[k] = true
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRule, strings.Join(unknown, ", "))
	}
	return nil
}

func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k := key(name)
	_, ok := r.rules[k]
	return ok && !r.disabled[k]
}

// SetSeverity overrides the severity of every diagnostic the rule emits.
func (r *Registry) SetSeverity(name string, s Severity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(name)
	if _, ok := r.rules[k]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	r.severity[k] = s
	return nil
}

func (r *Registry) Severity(name string) (Severity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.severity[key(name)]
	return s, ok
}

// List returns the enabled rules sorted by name.
func (r *Registry) List() []Rule {
	return r.list(false)
}

// All returns every registered rule sorted by name, disabled ones included.
func (r *Registry) All() []Rule {
	return r.list(true)
}

func (r *Registry) list(all bool) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.rules))
	for k, rule := range r.rules {
		if !all && r.disabled[k] {
			continue
		}
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta().Name < out[j].Meta().Name })
	return out
}
