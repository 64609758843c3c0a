// Package keycode generates lock access codes.
//
// Codes are credentials, not display tokens: a predictable generator is a
// lock-bypass vulnerability, so generation reads from crypto/rand and
// nothing else.  The format is fixed by the deployed lock firmware and card
// printers: four dash-separated groups of four lowercase hex characters,
// 64 bits of entropy.  No uniqueness check is made against existing codes;
// at 2^64 the birthday bound over any plausible booking volume is
// negligible.
package keycode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

const groups = 4

var codePattern = regexp.MustCompile(`^[0-9a-f]{4}(-[0-9a-f]{4}){3}$`)

// Generate returns a fresh code in the form "xxxx-xxxx-xxxx-xxxx".
func Generate() (string, error) {
	var raw [groups * 2]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("keycode: read random: %w", err)
	}

	buf := make([]byte, 0, groups*5-1)
	for i := 0; i < groups; i++ {
		if i > 0 {
			buf = append(buf, '-')
		}
		buf = hex.AppendEncode(buf, raw[i*2:i*2+2])
	}
	return string(buf), nil
}

// Valid reports whether s is a well-formed access code.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
