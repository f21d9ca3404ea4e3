// Package rules assembles the rule set shipped with LintHound.
package rules

import (
	"fmt"

	"github.com/rafabd1/LintHound/core/lint"
	"github.com/rafabd1/LintHound/core/secret"
)

// Options tunes the built-in rule set.
type Options struct {
	// Detectors run after the built-in secret detectors.
	Detectors []secret.Detector
	Disabled  []string
	Severity  map[string]lint.Severity
}

// NewRegistry registers every built-in rule and applies opts. A bad detector
// set or an unknown rule name is a configuration error.
func NewRegistry(opts Options) (*lint.Registry, error) {
	detectors := append(secret.Builtin(), opts.Detectors...)
	keys, err := secret.NewAggregator(detectors...)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", secret.RuleName, err)
	}

	reg := lint.NewRegistry()
	for _, r := range []lint.Rule{keys, NoUnexpectedMultiline{}} {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	if len(opts.Disabled) > 0 {
		if err := reg.Disable(opts.Disabled...); err != nil {
			return nil, err
		}
	}
	for name, sev := range opts.Severity {
		if err := reg.SetSeverity(name, sev); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
