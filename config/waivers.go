package config

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/rafabd1/LintHound/core/lint"
)

// ApplyWaivers filters out diagnostics that match any waiver.
// Returns (kept, waivedCount)
func ApplyWaivers(in []lint.FileDiagnostics, waivers []Waiver) ([]lint.FileDiagnostics, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	out := make([]lint.FileDiagnostics, 0, len(in))
	waived := 0
	for _, f := range in {
		kept := f
		kept.Diagnostics = nil
	nextDiagnostic:
		for _, d := range f.Diagnostics {
			for _, w := range waivers {
				if !eqCI(d.Rule, w.Rule) && !eqCI(d.Code, w.Rule) {
					continue
				}
				if w.Path != "" && !matchPath(w.Path, f.Path) {
					continue
				}
				if w.Contains != "" && !containsCI(labelText(f.Source, d), w.Contains) {
					continue
				}
				waived++
				continue nextDiagnostic
			}
			kept.Diagnostics = append(kept.Diagnostics, d)
		}
		out = append(out, kept)
	}
	return out, waived
}

// matchPath matches the slash form of p against pattern. Patterns without a
// slash are matched against the base name.
func matchPath(pattern, p string) bool {
	p = filepath.ToSlash(p)
	if !strings.Contains(pattern, "/") {
		p = path.Base(p)
	}
	ok, err := path.Match(pattern, p)
	return err == nil && ok
}

func labelText(src string, d lint.Diagnostic) string {
	if !d.Label.Valid() || int(d.Label.End) > len(src) {
		return ""
	}
	return src[d.Label.Start:d.Label.End]
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(sub))
}
