package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "## 1.3.0 - 2024-03-15\n\n### ✨ feat\n- **api:** add search (commit: a1)\n\n"

func TestFormatTerminal_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := FormatTerminal(sampleMarkdown, &buf, FormatOptions{Plain: true})
	require.NoError(t, err)
	assert.Equal(t, sampleMarkdown, buf.String())
}

func TestFormatTerminal_Styled(t *testing.T) {
	var buf bytes.Buffer
	err := FormatTerminal(sampleMarkdown, &buf, FormatOptions{MaxWidth: 120})
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "search")
}

func TestResolveWidth(t *testing.T) {
	assert.Equal(t, 100, resolveWidth(100))
	assert.Equal(t, defaultWidth, resolveWidth(0))
	assert.Equal(t, defaultWidth, resolveWidth(-1))
}

func TestFormatTerminal_WrapsToGivenWidth(t *testing.T) {
	long := "## 1.3.0 - 2024-03-15\n\n### ✨ feat\n- " + strings.Repeat("word ", 60) + "(commit: a1)\n"

	lines := func(width int) int {
		var buf bytes.Buffer
		require.NoError(t, FormatTerminal(long, &buf, FormatOptions{MaxWidth: width}))
		return strings.Count(buf.String(), "\n")
	}

	assert.Greater(t, lines(40), lines(200))
}
