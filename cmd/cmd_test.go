package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"recipes", "categories", "settlements", "load", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestVersion(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Git Commit:")
}

func TestLoadNeedsInput(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"load", "--csv", "a.csv", "--jsonl", "a.jsonl"})
	assert.Error(t, root.Execute())
}

func TestExitCode(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
		out  string
	}{
		{name: "ok", ctx: context.Background(), want: 0},
		{name: "failure", ctx: context.Background(), err: errors.New("boom"), want: 1, out: "error: boom\n"},
		{name: "interrupted", ctx: canceled, err: fmt.Errorf("page 1: %w", context.Canceled), want: ExitInterrupted, out: "interrupted\n"},
		{name: "canceled error without signal", ctx: context.Background(), err: context.Canceled, want: 1, out: "error: context canceled\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.want, exitCode(tt.ctx, tt.err, &stderr))
			assert.Equal(t, tt.out, stderr.String())
		})
	}
}

func TestRunInterruptedDuringFirstListingPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	dir := t.TempDir()
	var stderr bytes.Buffer
	code := run(ctx, NewRootCmd(), []string{
		"recipes",
		"--base-url", srv.URL,
		"--retries", "20",
		"--delay", "0",
		"--out-json", "",
		"--out-csv", "",
		"--settlement-list", filepath.Join(dir, "telepulesek.txt"),
	}, &stderr)

	assert.Equal(t, ExitInterrupted, code)
	assert.Equal(t, "interrupted\n", stderr.String())
}
