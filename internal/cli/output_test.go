package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newTestOutput(format string) (*Output, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	o := NewOutput(format)
	o.w = &out
	o.errW = &errOut
	return o, &out, &errOut
}

func TestListTableMode(t *testing.T) {
	o, out, _ := newTestOutput("table")
	o.List(
		[]string{"ID", "NAME"},
		[][]string{{"ABC123", "sensor-1"}, {"DEF456", "sensor-2"}},
		nil,
	)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "ABC123")
	assert.Contains(t, lines[2], "DEF456")
}

func TestListEmptyGoesToStderr(t *testing.T) {
	o, out, errOut := newTestOutput("table")
	o.List([]string{"ID"}, nil, nil)

	assert.Empty(t, out.String(), "stdout stays clean for piping")
	assert.Equal(t, "No results.\n", errOut.String())
}

func TestListJSONMode(t *testing.T) {
	type record struct {
		ID string `json:"id"`
	}
	o, out, _ := newTestOutput("json")
	o.List([]string{"ID"}, [][]string{{"ABC123"}}, []record{{ID: "ABC123"}})

	var decoded []record
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "ABC123", decoded[0].ID)
}

func TestDetailTableMode(t *testing.T) {
	o, out, _ := newTestOutput("table")
	o.Detail([][2]string{{"ID", "ABC123"}, {"Name", "sensor-1"}}, nil)

	got := out.String()
	assert.Contains(t, got, "ID:")
	assert.Contains(t, got, "ABC123")
	assert.Contains(t, got, "Name:")
}

func TestSuccessAndInfoGoToStderr(t *testing.T) {
	o, out, errOut := newTestOutput("table")
	o.Success("Device created: ABC123")
	o.Info("Aborted.")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "✓ Device created: ABC123")
	assert.Contains(t, errOut.String(), "Aborted.")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(0))
	assert.Equal(t, "2023-11-14T22:13:20Z", formatTime(1700000000000))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "-", maskSecret(""))
	assert.Equal(t, "***", maskSecret("abc"))
	assert.Equal(t, "abcd****", maskSecret("abcdefgh"))
}

func TestProfileNames(t *testing.T) {
	assert.Equal(t, "-", profileNames(nil))
	assert.Equal(t, "LIMITED_ADMIN,DEVICE_MANAGER", profileNames([]sigfox.ProfileRef{
		{ID: "p1", Name: "LIMITED_ADMIN"},
		{ID: "p2", Name: "DEVICE_MANAGER"},
	}))
}
