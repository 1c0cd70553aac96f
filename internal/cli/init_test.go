package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/config"
	"finboard/internal/log"
)

func TestSetupLoggerHonorsFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"app"`)
}

func TestOpenLogFile(t *testing.T) {
	w, closeFn, err := OpenLogFile("")
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w)
	require.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "tui.log")
	w, closeFn, err = OpenLogFile(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "line\n")
	require.NoError(t, err)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestGracefulShutdownOnParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())

	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(parent, log.Discard(), time.Second, func(context.Context) { close(cleaned) })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	<-cleaned
	assert.Error(t, ctx.Err())
}
