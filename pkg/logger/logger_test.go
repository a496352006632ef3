package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no debe salir")
	l.Warn().Str("order", "PRD001").Msg("orden aplicada")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "PRD001", entry["order"])
	assert.Equal(t, "orden aplicada", entry["message"])
}

func TestParseLevel_Desconocido(t *testing.T) {
	assert.Equal(t, "info", parseLevel("verbose").String())
}

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "INFO", Service: "fabrica", Output: &buf})

	l.Component("stocktaking").Info().Msg("toma física conciliada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "fabrica", entry["service"])
	assert.Equal(t, "stocktaking", entry["component"])
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Component("x").Error().Msg("descartado")
	})
}
