package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/rafabd1/LintHound/core/lint"
	"github.com/rafabd1/LintHound/core/secret"
	"github.com/rafabd1/LintHound/utils"
)

const informationURI = "https://github.com/rafabd1/LintHound"

type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatSARIF:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or sarif)", s)
}

// Report is everything a writer needs to render one run.
type Report struct {
	Tool    string
	Version string
	Files   []lint.FileDiagnostics
	Rules   []lint.Meta
}

// Counts returns the number of warnings and errors in the report.
func (r *Report) Counts() (warnings, errors int) {
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			if d.Severity == lint.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
	}
	return warnings, errors
}

// Write renders r to w. colored only affects the text format.
func Write(w io.Writer, format Format, r *Report, colored bool) error {
	switch format {
	case FormatText, "":
		return writeText(w, r, colored)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatSARIF:
		return writeSARIF(w, r)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// isSecret reports whether the label of d covers a credential that must not
// be printed in clear.
func isSecret(d lint.Diagnostic) bool {
	return d.Rule == secret.RuleName || strings.HasPrefix(d.Code, secret.RuleName+"/")
}

type palette struct {
	path, warn, err, code, gutter, caret, help *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		path:   color.New(color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		err:    color.New(color.FgRed, color.Bold),
		code:   color.New(color.FgHiBlack),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed),
		help:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.path, p.warn, p.err, p.code, p.gutter, p.caret, p.help} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func writeText(w io.Writer, r *Report, colored bool) error {
	p := newPalette(colored)
	var b strings.Builder
	for _, f := range r.Files {
		if len(f.Diagnostics) == 0 {
			continue
		}
		li := NewLineIndex(f.Source)
		for _, d := range f.Diagnostics {
			start := li.Position(d.Label.Start)
			sev := p.warn.Sprint(d.Severity.String())
			if d.Severity == lint.SeverityError {
				sev = p.err.Sprint(d.Severity.String())
			}
			code := ""
			if d.Code != "" {
				code = p.code.Sprintf("[%s]", d.Code)
			}
			fmt.Fprintf(&b, "%s %s%s %s\n", p.path.Sprintf("%s:%d:%d:", f.Path, start.Line, start.Column), sev, code, d.Message)

			line, caretCol, caretLen := snippet(li, f.Source, d, start)
			gutter := fmt.Sprintf("%d", start.Line)
			pad := strings.Repeat(" ", len(gutter))
			fmt.Fprintf(&b, " %s %s\n", p.gutter.Sprintf("%s |", gutter), line)
			fmt.Fprintf(&b, " %s %s%s\n", p.gutter.Sprintf("%s |", pad), strings.Repeat(" ", caretCol), p.caret.Sprint(strings.Repeat("^", caretLen)))
			if d.Help != "" {
				fmt.Fprintf(&b, " %s %s\n", pad, p.help.Sprintf("help: %s", d.Help))
			}
			b.WriteByte('\n')
		}
	}

	warnings, errors := r.Counts()
	if total := warnings + errors; total > 0 {
		fmt.Fprintf(&b, "%s (%d %s, %d %s)\n",
			p.err.Sprintf("%d %s", total, plural(total, "problem")),
			errors, plural(errors, "error"), warnings, plural(warnings, "warning"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// snippet returns the display line for d, with secrets masked, plus the
// caret offset and width in characters. Labels spanning lines are underlined
// to the end of their first line.
func snippet(li *LineIndex, src string, d lint.Diagnostic, start Position) (string, int, int) {
	line := li.Line(start.Line)
	lineStart := li.LineStart(start.Line)
	lineEnd := lineStart + len(line)

	from := min(int(d.Label.Start), lineEnd)
	to := min(max(int(d.Label.End), from), lineEnd)
	label := src[from:to]
	if isSecret(d) {
		line = line[:from-lineStart] + maskLiteral(label) + line[to-lineStart:]
	}
	return line, start.Column - 1, max(utf8.RuneCountInString(label), 1)
}

// maskLiteral masks a literal while keeping its quotes.
func maskLiteral(s string) string {
	if n := len(s); n >= 2 && strings.ContainsRune("\"'`", rune(s[0])) && s[n-1] == s[0] {
		return s[:1] + utils.MaskSecret(s[1:n-1], 4) + s[n-1:]
	}
	return utils.MaskSecret(s, 4)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

type jsonSpan struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type jsonDiagnostic struct {
	Rule     string   `json:"rule"`
	Code     string   `json:"code,omitempty"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Help     string   `json:"help,omitempty"`
	Span     jsonSpan `json:"span"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

type jsonFile struct {
	Path        string           `json:"path"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonReport struct {
	Tool     string     `json:"tool"`
	Version  string     `json:"version"`
	Files    []jsonFile `json:"files"`
	Warnings int        `json:"warnings"`
	Errors   int        `json:"errors"`
}

func writeJSON(w io.Writer, r *Report) error {
	out := jsonReport{Tool: r.Tool, Version: r.Version, Files: []jsonFile{}}
	out.Warnings, out.Errors = r.Counts()
	for _, f := range r.Files {
		if len(f.Diagnostics) == 0 {
			continue
		}
		li := NewLineIndex(f.Source)
		jf := jsonFile{Path: filepath.ToSlash(f.Path)}
		for _, d := range f.Diagnostics {
			jf.Diagnostics = append(jf.Diagnostics, jsonDiagnostic{
				Rule:     d.Rule,
				Code:     d.Code,
				Severity: d.Severity.String(),
				Message:  d.Message,
				Help:     d.Help,
				Span:     jsonSpan{Start: d.Label.Start, End: d.Label.End},
				Start:    li.Position(d.Label.Start),
				End:      li.Position(d.Label.End),
			})
		}
		out.Files = append(out.Files, jf)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func sarifLevel(s lint.Severity) string {
	if s == lint.SeverityError {
		return "error"
	}
	return "warning"
}

func writeSARIF(w io.Writer, r *Report) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("creating sarif report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(r.Tool, informationURI)
	if r.Version != "" {
		run.Tool.Driver.WithVersion(r.Version)
	}
	for _, m := range r.Rules {
		rule := run.AddRule(m.Name).WithDescription(m.Summary)
		if m.Name == secret.RuleName {
			rule.WithTextHelp(secret.Help)
		}
	}

	for _, f := range r.Files {
		li := NewLineIndex(f.Source)
		uri := filepath.ToSlash(f.Path)
		for _, d := range f.Diagnostics {
			start, end := li.Position(d.Label.Start), li.Position(d.Label.End)
			msg := d.Message
			if d.Code != "" {
				msg = fmt.Sprintf("%s [%s]", d.Message, d.Code)
			}
			region := sarif.NewRegion().
				WithStartLine(start.Line).
				WithStartColumn(start.Column).
				WithEndLine(end.Line).
				WithEndColumn(end.Column)
			location := sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(uri)).
					WithRegion(region),
			)
			run.AddRule(d.Rule)
			run.CreateResultForRule(d.Rule).
				WithLevel(sarifLevel(d.Severity)).
				WithMessage(sarif.NewTextMessage(msg)).
				AddLocation(location)
		}
	}

	report.AddRun(run)
	return report.PrettyWrite(w)
}
