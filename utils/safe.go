package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const previewSize = 16

// PreviewBytes returns a printable hex dump of the first bytes of data for
// log messages about unusable blobs.
func PreviewBytes(data []byte) string {
	if len(data) == 0 {
		return "<empty>"
	}

	shown := data
	if len(shown) > previewSize {
		shown = shown[:previewSize]
	}
	line := strings.TrimPrefix(
		strings.SplitN(hex.Dump(shown), "\n", 2)[0],
		"00000000  ",
	)
	return fmt.Sprintf("[%d bytes] %s", len(data), line)
}
