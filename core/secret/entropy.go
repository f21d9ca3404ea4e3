package secret

import (
	"math"
	"unicode/utf8"
)

// Entropy returns the Shannon entropy of s in bits per symbol, counting
// Unicode code points. The empty string has entropy 0.
func Entropy(s string) float32 {
	if s == "" {
		return 0
	}

	freqs := make(map[rune]int)
	for _, r := range s {
		freqs[r]++
	}

	total := float64(utf8.RuneCountInString(s))
	var entropy float64
	for _, count := range freqs {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return float32(entropy)
}
