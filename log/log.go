package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Plugin = zapcore.Core

// NOTE: options from DefaultOption cannot be overridden
func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// Lumberjack holds the file but does not expose Sync, so zap cannot flush it.
// The returned closer must be closed before the process exits.
func NewFilePlugin(
	filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath

	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the process logger: stderr always, plus a rotated file when
// filePath is set. The level text is parsed by zapcore ("debug", "INFO", ...).
func Setup(levelText string, filePath string) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, nil, err
	}

	plugins := []Plugin{NewStderrPlugin(level)}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		p, c := NewFilePlugin(filePath, level)
		plugins = append(plugins, p)
		closer = c
	}

	return NewLogger(zapcore.NewTee(plugins...)), closer, nil
}
