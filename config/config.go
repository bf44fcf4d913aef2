// Package config reads the optional config.toml. Command line flags take
// precedence over everything loaded here.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

const DefaultPath = "config.toml"

type Fetcher struct {
	Timeout   time.Duration
	Retries   int
	Delay     time.Duration // politeness delay between requests
	Proxy     []string
	UserAgent string
}

type Storage struct {
	DSN      string
	MaxConns int
}

type Embed struct {
	Kind  string
	Model string
	Dim   int
	URL   string
}

type Config struct {
	LogLevel string
	LogFile  string
	Fetcher  Fetcher
	Storage  Storage
	Embed    Embed
}

func Default() *Config {
	return &Config{
		LogLevel: "INFO",
		Fetcher: Fetcher{
			Timeout: 20 * time.Second,
			Retries: 3,
			Delay:   800 * time.Millisecond,
		},
		Storage: Storage{
			DSN:      os.Getenv("DATABASE_URL"),
			MaxConns: 2,
		},
		Embed: Embed{
			Kind:  "hash",
			Model: "all-minilm",
			Dim:   384,
			URL:   "http://localhost:11434",
		},
	}
}

// Load reads path over the defaults. Durations are given in milliseconds.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return nil, err
	}
	defer cfg.Close()

	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	c := Default()
	c.LogLevel = cfg.Get("logLevel").String(c.LogLevel)
	c.LogFile = cfg.Get("logFile").String(c.LogFile)

	c.Fetcher.Timeout = millis(cfg.Get("fetcher", "timeout"), c.Fetcher.Timeout)
	c.Fetcher.Retries = cfg.Get("fetcher", "retries").Int(c.Fetcher.Retries)
	c.Fetcher.Delay = millis(cfg.Get("fetcher", "delay"), c.Fetcher.Delay)
	c.Fetcher.Proxy = cfg.Get("fetcher", "proxy").StringSlice(c.Fetcher.Proxy)
	c.Fetcher.UserAgent = cfg.Get("fetcher", "userAgent").String(c.Fetcher.UserAgent)

	c.Storage.DSN = cfg.Get("storage", "dsn").String(c.Storage.DSN)
	c.Storage.MaxConns = cfg.Get("storage", "maxConns").Int(c.Storage.MaxConns)

	c.Embed.Kind = cfg.Get("embed", "kind").String(c.Embed.Kind)
	c.Embed.Model = cfg.Get("embed", "model").String(c.Embed.Model)
	c.Embed.Dim = cfg.Get("embed", "dim").Int(c.Embed.Dim)
	c.Embed.URL = cfg.Get("embed", "url").String(c.Embed.URL)

	return c, nil
}

func millis(v reader.Value, def time.Duration) time.Duration {
	ms := v.Int(-1)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
