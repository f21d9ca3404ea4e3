package secret

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Charset restricts the bytes that may follow a pattern's prefix.
type Charset string

const (
	CharsetAny        Charset = ""
	CharsetAlnum      Charset = "alnum"
	CharsetUpperAlnum Charset = "upper-alnum"
	CharsetHex        Charset = "hex"
	CharsetLowerHex   Charset = "lower-hex"
	CharsetBase64     Charset = "base64"
	CharsetBase64URL  Charset = "base64url"
)

func (cs Charset) Valid() bool {
	switch cs {
	case CharsetAny, CharsetAlnum, CharsetUpperAlnum, CharsetHex, CharsetLowerHex, CharsetBase64, CharsetBase64URL:
		return true
	}
	return false
}

// Allows reports whether every byte of s belongs to the charset.
func (cs Charset) Allows(s string) bool {
	if cs == CharsetAny {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !cs.allowsByte(s[i]) {
			return false
		}
	}
	return true
}

func (cs Charset) allowsByte(c byte) bool {
	digit := c >= '0' && c <= '9'
	upper := c >= 'A' && c <= 'Z'
	lower := c >= 'a' && c <= 'z'
	switch cs {
	case CharsetAlnum:
		return digit || upper || lower
	case CharsetUpperAlnum:
		return digit || upper
	case CharsetHex:
		return digit || (c|0x20 >= 'a' && c|0x20 <= 'f')
	case CharsetLowerHex:
		return digit || (c >= 'a' && c <= 'f')
	case CharsetBase64:
		return digit || upper || lower || c == '+' || c == '/' || c == '='
	case CharsetBase64URL:
		return digit || upper || lower || c == '-' || c == '_'
	}
	return false
}

// Pattern is a prefix based detector. The built-in detectors and the ones
// loaded from definition files are Patterns.
type Pattern struct {
	Name        string
	Description string
	Prefixes    []string
	// Charset applies to the text after the prefix.
	Charset Charset
	// Length, when non-zero, is the exact byte length of a match.
	Length int
	// MinLength falls back to DefaultMinLen when zero.
	MinLength uint32
	Entropy   float32
	// Keywords, when set, must appear in the name the value is assigned to.
	Keywords []string
	// Regex, when set, must match the whole candidate text.
	Regex *regexp.Regexp
	// Excludes reject candidates that any of them match.
	Excludes []*regexp.Regexp
	Check    func(Violation) bool
}

func (p *Pattern) RuleName() string {
	return p.Name
}

func (p *Pattern) Message() string {
	return p.Description
}

func (p *Pattern) MinLen() uint32 {
	if p.MinLength == 0 {
		return DefaultMinLen
	}
	return p.MinLength
}

func (p *Pattern) MinEntropy() float32 {
	return p.Entropy
}

func (p *Pattern) Detect(c Candidate) bool {
	text := c.Text()
	if p.Length > 0 && len(text) != p.Length {
		return false
	}
	rest, ok := p.trimPrefix(text)
	if !ok || !p.Charset.Allows(rest) {
		return false
	}
	if p.Regex != nil && !p.Regex.MatchString(text) {
		return false
	}
	for _, re := range p.Excludes {
		if re.MatchString(text) {
			return false
		}
	}
	return p.matchesKeywords(c)
}

func (p *Pattern) Verify(v Violation) bool {
	if p.Check == nil {
		return true
	}
	return p.Check(v)
}

func (p *Pattern) trimPrefix(text string) (string, bool) {
	if len(p.Prefixes) == 0 && p.Regex != nil {
		return text, true
	}
	for _, prefix := range p.Prefixes {
		if strings.HasPrefix(text, prefix) {
			return text[len(prefix):], true
		}
	}
	return "", false
}

func (p *Pattern) matchesKeywords(c Candidate) bool {
	if len(p.Keywords) == 0 {
		return true
	}
	ident, ok := c.Identifier()
	if !ok {
		return false
	}
	ident = strings.ToLower(ident)
	for _, kw := range p.Keywords {
		if strings.Contains(ident, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

var ErrInvalidDefinition = errors.New("invalid detector definition")

var ruleNameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Definition is the file form of a Pattern.
type Definition struct {
	RuleName   string   `yaml:"rule_name" toml:"rule_name" json:"rule_name"`
	Message    string   `yaml:"message" toml:"message" json:"message"`
	Prefixes   []string `yaml:"prefixes" toml:"prefixes" json:"prefixes"`
	Charset    string   `yaml:"charset" toml:"charset" json:"charset"`
	Length     int      `yaml:"length" toml:"length" json:"length"`
	MinLen     *uint32  `yaml:"min_len" toml:"min_len" json:"min_len"`
	MinEntropy *float32 `yaml:"min_entropy" toml:"min_entropy" json:"min_entropy"`
	Keywords   []string `yaml:"keywords" toml:"keywords" json:"keywords"`
	// Pattern is a regular expression the whole literal must match. A
	// definition needs prefixes, a pattern, or both.
	Pattern  string   `yaml:"pattern" toml:"pattern" json:"pattern"`
	Excludes []string `yaml:"exclude_patterns" toml:"exclude_patterns" json:"exclude_patterns"`
}

// Compile validates d and turns it into a detector. Missing thresholds take
// the package defaults.
func (d Definition) Compile() (*Pattern, error) {
	if !ruleNameRe.MatchString(d.RuleName) {
		return nil, fmt.Errorf("%w: rule name %q is not kebab-case", ErrInvalidDefinition, d.RuleName)
	}
	p := &Pattern{
		Name:        d.RuleName,
		Description: d.Message,
		Charset:     Charset(strings.ToLower(d.Charset)),
		Length:      d.Length,
		MinLength:   DefaultMinLen,
		Entropy:     DefaultMinEntropy,
		Keywords:    d.Keywords,
	}
	if p.Description == "" {
		p.Description = fmt.Sprintf("Detected a hard-coded %s credential.", d.RuleName)
	}
	for _, prefix := range d.Prefixes {
		if prefix != "" {
			p.Prefixes = append(p.Prefixes, prefix)
		}
	}
	if d.Pattern != "" {
		re, err := anchored(d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s pattern: %v", ErrInvalidDefinition, d.RuleName, err)
		}
		p.Regex = re
	}
	if len(p.Prefixes) == 0 && p.Regex == nil {
		return nil, fmt.Errorf("%w: %s has no prefixes or pattern", ErrInvalidDefinition, d.RuleName)
	}
	for _, ex := range d.Excludes {
		re, err := regexp.Compile(ex)
		if err != nil {
			return nil, fmt.Errorf("%w: %s exclude pattern: %v", ErrInvalidDefinition, d.RuleName, err)
		}
		p.Excludes = append(p.Excludes, re)
	}
	if !p.Charset.Valid() {
		return nil, fmt.Errorf("%w: %s has unknown charset %q", ErrInvalidDefinition, d.RuleName, d.Charset)
	}
	if d.Length < 0 {
		return nil, fmt.Errorf("%w: %s has negative length", ErrInvalidDefinition, d.RuleName)
	}
	if d.MinLen != nil {
		if *d.MinLen == 0 {
			return nil, fmt.Errorf("%w: %s min_len must be at least 1", ErrInvalidDefinition, d.RuleName)
		}
		p.MinLength = *d.MinLen
	}
	if d.MinEntropy != nil {
		e := *d.MinEntropy
		if e < 0 || math.IsNaN(float64(e)) {
			return nil, fmt.Errorf("%w: %s min_entropy must be non-negative", ErrInvalidDefinition, d.RuleName)
		}
		p.Entropy = e
	}
	return p, nil
}

// anchored compiles expr so that it has to match the entire input.
func anchored(expr string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(expr); err != nil {
		return nil, err
	}
	return regexp.Compile(`^(?:` + expr + `)$`)
}
