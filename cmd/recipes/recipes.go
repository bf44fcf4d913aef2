package recipes

import (
	"errors"
	"io/fs"

	"github.com/izorzok/crawler/cmd/bootstrap"
	"github.com/izorzok/crawler/engine"
	"github.com/izorzok/crawler/gazetteer"
	"github.com/izorzok/crawler/limiter"
	"github.com/izorzok/crawler/parse/izorzok"
	"github.com/izorzok/crawler/spider"
	"github.com/izorzok/crawler/storage"
	"github.com/izorzok/crawler/storage/filestorage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var RecipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "scrape recipes into JSONL and CSV.",
	Long:  "walk the recipe listing of izorzok.hu, scrape every recipe page and write the results as JSONL and CSV.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd)
	},
}

var (
	startPage      int
	endPage        int
	delay          float64
	retries        int
	outJSON        string
	outCSV         string
	singleURL      string
	settlementList string
	baseURL        string
)

func init() {
	RecipesCmd.Flags().IntVar(&startPage, "start-page", 1, "first listing page")
	RecipesCmd.Flags().IntVar(&endPage, "end-page", 0, "last listing page, 0 means the last one")
	RecipesCmd.Flags().Float64Var(&delay, "delay", 0.8, "seconds between requests")
	RecipesCmd.Flags().IntVar(&retries, "retries", 3, "attempts per request")
	RecipesCmd.Flags().StringVar(&outJSON, "out-json", "receptek.jsonl", "JSONL output, empty to skip")
	RecipesCmd.Flags().StringVar(&outCSV, "out-csv", "receptek.csv", "CSV output, empty to skip")
	RecipesCmd.Flags().StringVar(&singleURL, "single-url", "", "scrape only this recipe page")
	RecipesCmd.Flags().StringVar(&settlementList, "settlement-list", "telepulesek_lista.txt", "settlement names, one per line")
	RecipesCmd.Flags().StringVar(&baseURL, "base-url", izorzok.BaseURL, "site root")
}

func Run(cmd *cobra.Command) error {
	env, err := bootstrap.Init(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.Logger

	if cmd.Flags().Changed("delay") {
		env.Config.Fetcher.Delay = bootstrap.Seconds(delay)
	}
	if cmd.Flags().Changed("retries") {
		env.Config.Fetcher.Retries = retries
	}

	g, err := gazetteer.Load(settlementList)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		logger.Warn("settlement list not found, settlements will be empty", zap.String("path", settlementList))
	}
	logger.Info("settlements loaded", zap.Int("count", g.Len()))

	var storages []storage.Storage
	if outJSON != "" {
		storages = append(storages, filestorage.New(outJSON, filestorage.JSONL, logger))
	}
	if outCSV != "" {
		storages = append(storages, filestorage.New(outCSV, filestorage.CSV, logger))
	}

	c, err := engine.NewCrawler(
		engine.WithFetcher(env.Fetcher()),
		engine.WithLogger(logger),
		engine.WithLimiter(limiter.Politeness(env.Config.Fetcher.Delay)),
		engine.WithGazetteer(g),
		engine.WithReqRepository(spider.NewReqHistoryRepository()),
		engine.WithBaseURL(baseURL),
		engine.WithPages(startPage, endPage),
		engine.WithSingleURL(singleURL),
		engine.WithStorage(storages...),
	)
	if err != nil {
		return err
	}

	recipes, err := c.Run(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("done", zap.Int("recipes", len(recipes)))
	return nil
}
