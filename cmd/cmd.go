package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/izorzok/crawler/cmd/bootstrap"
	"github.com/izorzok/crawler/cmd/categories"
	"github.com/izorzok/crawler/cmd/load"
	"github.com/izorzok/crawler/cmd/recipes"
	"github.com/izorzok/crawler/cmd/settlements"
	"github.com/izorzok/crawler/version"
	"github.com/spf13/cobra"
)

// ExitInterrupted is the conventional status of a process stopped by SIGINT.
const ExitInterrupted = 130

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(cmd.OutOrStdout())
	},
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crawler",
		Short:         "izorzok.hu recipe scraper and loader.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bootstrap.AddFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(
		recipes.RecipesCmd,
		categories.CategoriesCmd,
		settlements.SettlementsCmd,
		load.LoadCmd,
		versionCmd,
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	return exitCode(ctx, root.ExecuteContext(ctx), stderr)
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "interrupted")
		return ExitInterrupted
	}
	fmt.Fprintln(stderr, "error:", err)
	return 1
}
