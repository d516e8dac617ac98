package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf,
		[]string{"Display Name", "Account"},
		[][]string{
			{"Pat Doe", "pdoe"},
			{"Sam Ortiz-Langley", "sortiz"},
		})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "DISPLAY NAME       ACCOUNT", lines[0])
	assert.Equal(t, "Pat Doe            pdoe", lines[1])
	assert.Equal(t, "Sam Ortiz-Langley  sortiz", lines[2])
}

func TestPrintTable_HeaderWiderThanCells(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"Account"}, [][]string{{"a"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "ACCOUNT", lines[0])
	assert.Equal(t, "a", lines[1])
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"count": 3}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["count"])
	assert.Contains(t, buf.String(), "  ", "output should be indented")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "hu****55", maskSecret("hunter2-hunter55"))
}
