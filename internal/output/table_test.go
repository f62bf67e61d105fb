package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualLen_StripsANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain", "hello", 5},
		{"empty", "", 0},
		{"bold", "\x1b[1mhello\x1b[0m", 5},
		{"color", "\x1b[31mred\x1b[0m", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, visualLen(tc.input))
		})
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "hi        ", pad("hi", 10))
	assert.Equal(t, "hello", pad("hello", 5))
	assert.Equal(t, "toolong", pad("toolong", 3))
}

func TestTable_Render(t *testing.T) {
	SetNoColor(true)

	tbl := NewTable("Customer", "Z-score")
	tbl.AddRow("Acme Corp", "2.45")
	tbl.AddRow("Globex", "2.10")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Customer "))
	assert.Contains(t, lines[1], "─")
	assert.Equal(t, "Acme Corp  2.45   ", lines[2])
	assert.Equal(t, "Globex     2.10   ", lines[3])
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, tbl.Render(), tbl.String())
}

func TestTable_EmptyHeaders(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestTable_FprintEmpty(t *testing.T) {
	SetNoColor(true)

	var buf bytes.Buffer
	NewTable("A").Fprint(&buf)
	assert.Equal(t, "(none)\n", buf.String())
}

func TestFormatting(t *testing.T) {
	SetNoColor(true)

	assert.Equal(t, "1825.00", Amount(1825))
	assert.Equal(t, "-", Optional(nil))
	v := 0.349
	assert.Equal(t, "0.35", Optional(&v))
	assert.Equal(t, "+100%", Signed(1.0))
	assert.Equal(t, "-80%", Signed(-0.8))
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	assert.True(t, IsNoColor())
	assert.NotContains(t, StyleHeader.Render("test"), "\x1b[")
}
