package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesPlainText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	logger.Info().Str("model", "o3").Msg("selected")

	out := buf.String()
	assert.Contains(t, out, "selected")
	assert.Contains(t, out, "model=o3")
}

func TestSetup_WritesToFile(t *testing.T) {
	prev := zlog.Logger
	t.Cleanup(func() {
		zlog.Logger = prev
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closeFn, err := Setup(path, true)
	require.NoError(t, err)

	zlog.Debug().Msg("debug line")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug line")
}
