package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleAsk(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := NewConsole(strings.NewReader("  first  \nlast"), &out)

	got, err := c.Ask("Q1: ")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = c.Ask("Q2: ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = c.Ask("Q3: ")
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "Q1: Q2: Q3: ", out.String())
}

func TestThemeBannerPlainOnBuffer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	theme := NewTheme(&out)
	banner := theme.Banner("TITLE", 10)
	lines := strings.Split(banner, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "==========", lines[0])
	assert.Equal(t, "TITLE", strings.TrimSpace(lines[1]))
	assert.Equal(t, "oops", theme.Failure("oops"))
}
