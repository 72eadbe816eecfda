package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizeHex lowercases a hex string and strips an optional 0x/0X prefix.
// Lightning tooling prints public keys and hashes in lowercase without prefix.
func NormalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	return strings.ToLower(s)
}

// DecodeHex decodes a hex string after normalizing it.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(NormalizeHex(s))
	if err != nil {
		return nil, fmt.Errorf("decoding hex %q: %v", s, err)
	}
	return b, nil
}
