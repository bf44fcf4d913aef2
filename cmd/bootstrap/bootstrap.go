// Package bootstrap holds what every subcommand needs before it starts:
// configuration, the logger, the run id and the fetcher.
package bootstrap

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/izorzok/crawler/config"
	"github.com/izorzok/crawler/generator"
	"github.com/izorzok/crawler/log"
	"github.com/izorzok/crawler/proxy"
	"github.com/izorzok/crawler/spider"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	logFile    string
)

// AddFlags registers the flags shared by all subcommands.
func AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&configPath, "config", config.DefaultPath, "config file (toml)")
	flags.StringVar(&logLevel, "log-level", "", "log level, overrides logLevel of the config")
	flags.StringVar(&logFile, "log-file", "", "also log to this rotated file")
}

type Env struct {
	Config *config.Config
	Logger *zap.Logger
	RunID  string

	closer  io.Closer
	fetcher spider.Fetcher
}

// Init loads the config and builds the logger. A missing config file is
// fine unless --config was given explicitly.
func Init(cmd *cobra.Command) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, err
		}
		cfg = config.Default()
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	logger, closer, err := log.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, closer: closer}
	id, err := generator.RunID(generator.NodeByIP(generator.LocalIP()))
	if err != nil {
		logger.Warn("run id", zap.Error(err))
	} else {
		env.RunID = id.String()
	}

	env.Logger = logger.With(zap.String("cmd", cmd.Name()), zap.String("run", env.RunID))
	zap.ReplaceGlobals(env.Logger)

	return env, nil
}

func (e *Env) Close() {
	_ = e.Logger.Sync()
	_ = e.closer.Close()
}

// Fetcher builds the browser-like fetcher from the fetcher section of the config.
func (e *Env) Fetcher() spider.Fetcher {
	if e.fetcher != nil {
		return e.fetcher
	}
	fc := e.Config.Fetcher
	opts := []spider.Option{
		spider.WithLogger(e.Logger.Named("fetcher")),
		spider.WithTimeout(fc.Timeout),
		spider.WithRetries(fc.Retries),
		spider.WithUserAgent(fc.UserAgent),
	}
	if len(fc.Proxy) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(fc.Proxy...)
		if err != nil {
			e.Logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
		} else {
			opts = append(opts, spider.WithProxy(p))
		}
	}
	e.fetcher = spider.NewFetchService(spider.BrowserFetchType, opts...)
	return e.fetcher
}

// Seconds converts a --delay style flag value.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Fetch downloads one page with the configured fetcher.
func (e *Env) Fetch(ctx context.Context, rule, url string) ([]byte, error) {
	return e.Fetcher().Get(ctx, spider.NewRequest(rule, url))
}

// Create opens path for writing, creating missing parent directories.
func Create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
