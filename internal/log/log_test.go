package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntriesAreJSONWithAction(t *testing.T) {
	var buf bytes.Buffer
	Setup("debug", &buf)
	defer Setup("info", nil)

	Audit(nil, "cart.add", map[string]any{"product": "p-1"})
	Error(nil, "api.fail", errors.New("boom"), nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "cart.add", first["action"])
	assert.Equal(t, "audit", first["kind"])
	assert.Equal(t, "info", first["level"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "boom", second["err"])
	assert.Equal(t, "error", second["level"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Setup("not-a-level", &buf)
	defer Setup("info", nil)

	Debug(nil, "noise", nil)
	assert.Empty(t, buf.String())
}
