package settlements

import (
	"fmt"

	"github.com/izorzok/crawler/cmd/bootstrap"
	"github.com/izorzok/crawler/gazetteer"
	"github.com/izorzok/crawler/parse/izorzok"
	"github.com/izorzok/crawler/spider"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var SettlementsCmd = &cobra.Command{
	Use:   "settlements",
	Short: "download the settlement list.",
	Long:  "read the settlement names from the location selector of the site and write them one per line.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd)
	},
}

var (
	out     string
	baseURL string
)

func init() {
	SettlementsCmd.Flags().StringVar(&out, "out", "telepulesek_lista.txt", "output file")
	SettlementsCmd.Flags().StringVar(&baseURL, "base-url", izorzok.BaseURL, "site root")
}

func Run(cmd *cobra.Command) error {
	env, err := bootstrap.Init(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	body, err := env.Fetch(cmd.Context(), spider.RuleSettlements, izorzok.SettlementsURL(baseURL))
	if err != nil {
		return fmt.Errorf("download settlements: %w", err)
	}
	names, err := gazetteer.Scrape(body)
	if err != nil {
		return err
	}

	f, err := bootstrap.Create(out)
	if err != nil {
		return err
	}
	if err := gazetteer.Write(f, names); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	env.Logger.Info("settlements saved", zap.String("path", out), zap.Int("count", len(names)))
	return nil
}
