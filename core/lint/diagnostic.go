package lint

import (
	"fmt"
	"strings"

	"github.com/rafabd1/LintHound/core/ast"
)

// Severity of a diagnostic. The zero value is a warning.
type Severity uint8

const (
	SeverityWarn Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity accepts "warn", "warning", "error" and "deny" in any case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "warning":
		return SeverityWarn, nil
	case "error", "deny":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Diagnostic is one finding anchored to a span of the analysed source.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Code is "<category>/<rule>" when set.
	Code  string
	Label ast.Span
	Help  string
	// Rule is filled in by the Context with the name of the emitting rule.
	Rule string
}

func Warn(message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarn, Message: message}
}

func Error(message string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: message}
}

func (d Diagnostic) WithCode(category, rule string) Diagnostic {
	d.Code = category + "/" + rule
	return d
}

func (d Diagnostic) WithLabel(sp ast.Span) Diagnostic {
	d.Label = sp
	return d
}

func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
