package log_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/izorzok/crawler/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")

	var p, c = log.NewFilePlugin(path, zapcore.InfoLevel)
	var logger = log.NewLogger(p)
	logger.Debug("dropped")
	logger.Info("recipe parsed", zap.String("url", "https://www.izorzok.hu/lecso/"), zap.Int("ingredients", 4))
	require.NoError(t, c.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "recipe parsed", lines[0]["msg"])
	assert.Equal(t, float64(4), lines[0]["ingredients"])
	assert.Contains(t, lines[0], "caller")
}

func TestSetup(t *testing.T) {
	_, _, err := log.Setup("loud", "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "run.log")
	logger, closer, err := log.Setup("debug", path)
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}
