package secret

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// JWT detects signed JSON Web Tokens.
type JWT struct {
	Defaults
}

func (JWT) RuleName() string {
	return "jwt"
}

func (JWT) Message() string {
	return "Detected a JSON Web Token, which may grant access to protected APIs."
}

func (JWT) MinLen() uint32 {
	return 36
}

func (JWT) Detect(c Candidate) bool {
	text := c.Text()
	if !strings.HasPrefix(text, "eyJ") {
		return false
	}
	parts := strings.Split(text, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return false
	}
	for _, part := range parts {
		if !CharsetBase64URL.Allows(part) {
			return false
		}
	}
	return true
}

// Verify requires the header to decode to a JSON object naming an algorithm.
func (JWT) Verify(v Violation) bool {
	header, _, _ := strings.Cut(v.Candidate.Text(), ".")
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(header, "="))
	if err != nil {
		return false
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	alg, ok := fields["alg"].(string)
	return ok && alg != ""
}
