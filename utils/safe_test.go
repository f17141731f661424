package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<empty>", PreviewBytes(nil))

	preview := PreviewBytes([]byte("abc"))
	assert.True(t, strings.HasPrefix(preview, "[3 bytes] 61 62 63"), preview)
	assert.True(t, strings.HasSuffix(preview, "|abc|"), preview)

	preview = PreviewBytes([]byte(strings.Repeat("x", 100)))
	assert.True(t, strings.HasPrefix(preview, "[100 bytes] 78 78"), preview)
	assert.True(t, strings.HasSuffix(preview, "|"+strings.Repeat("x", 16)+"|"), preview)
}
