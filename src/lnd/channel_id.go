package lnd

import (
	"fmt"
)

// FormatChannelID renders a numeric channel id as block x transaction x
// output, the notation used throughout the Lightning ecosystem.
func FormatChannelID(id uint64) string {
	block := id >> 40
	tx := (id >> 16) & 0xffffff
	out := id & 0xffff
	return fmt.Sprintf("%dx%dx%d", block, tx, out)
}

// ParseChannelID is the inverse of FormatChannelID.
func ParseChannelID(s string) (uint64, error) {
	var block, tx, out uint64
	n, err := fmt.Sscanf(s, "%dx%dx%d", &block, &tx, &out)
	if err != nil || n != 3 {
		return 0, fmt.Errorf("invalid channel id %q", s)
	}
	if block >= 1<<24 || tx >= 1<<24 || out >= 1<<16 {
		return 0, fmt.Errorf("channel id %q out of range", s)
	}
	if FormatChannelID(block<<40|tx<<16|out) != s {
		return 0, fmt.Errorf("channel id %q is not canonical", s)
	}
	return block<<40 | tx<<16 | out, nil
}
