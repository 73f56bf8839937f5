package util

import (
	"fmt"
	"strings"
)

// FormatHexDump renders data as a classic 16-byte-per-row hex dump with
// an ASCII gutter. Used for frame dumps in verbose mode.
func FormatHexDump(data []byte) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(&sb, "%04x  ", i)

		for j := 0; j < 16; j++ {
			if i+j < len(data) {
				fmt.Fprintf(&sb, "%02x ", data[i+j])
			} else {
				sb.WriteString("   ")
			}
			if j == 7 {
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(" |")
		for j := 0; j < 16 && i+j < len(data); j++ {
			b := data[i+j]
			if b >= 32 && b < 127 {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}

// PrintHexDump writes FormatHexDump's output to stdout.
func PrintHexDump(data []byte) {
	fmt.Print(FormatHexDump(data))
}
