package secret

import "hash/crc32"

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// githubChecksum validates the last six characters of a classic GitHub token:
// the CRC32 of the 30 character body, base62 encoded and zero padded.
func githubChecksum(v Violation) bool {
	text := v.Candidate.Text()
	if len(text) != 40 {
		return false
	}
	body, sum := text[4:34], text[34:]
	return encodeBase62(crc32.ChecksumIEEE([]byte(body)), len(sum)) == sum
}

func encodeBase62(n uint32, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(buf)
}
