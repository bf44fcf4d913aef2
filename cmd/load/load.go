package load

import (
	"errors"
	"fmt"

	"github.com/izorzok/crawler/cmd/bootstrap"
	"github.com/izorzok/crawler/config"
	"github.com/izorzok/crawler/embed"
	"github.com/izorzok/crawler/sqldb"
	"github.com/izorzok/crawler/storage/filestorage"
	"github.com/izorzok/crawler/storage/sqlstorage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var LoadCmd = &cobra.Command{
	Use:   "load",
	Short: "load scraped recipes into Postgres.",
	Long:  "upsert the recipes of a CSV or JSONL file into Postgres and store a pgvector embedding for each of them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd)
	},
}

var (
	csvPath    string
	jsonlPath  string
	initSchema bool
	dsn        string
	embedKind  string
	model      string
	dim        int
	ollamaURL  string
)

func init() {
	LoadCmd.Flags().StringVar(&csvPath, "csv", "", "recipes CSV file")
	LoadCmd.Flags().StringVar(&jsonlPath, "jsonl", "", "recipes JSONL file")
	LoadCmd.Flags().BoolVar(&initSchema, "init-schema", false, "create tables and seed categories and regions first")
	LoadCmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string, defaults to storage.dsn or DATABASE_URL")
	LoadCmd.Flags().StringVar(&embedKind, "embed", "", "embedding method: none, hash or ollama")
	LoadCmd.Flags().StringVar(&model, "model", "", "ollama embedding model")
	LoadCmd.Flags().IntVar(&dim, "dim", 0, "embedding dimension")
	LoadCmd.Flags().StringVar(&ollamaURL, "ollama-url", "", "ollama server")
	LoadCmd.MarkFlagsMutuallyExclusive("csv", "jsonl")
}

func Run(cmd *cobra.Command) error {
	path, format := csvPath, filestorage.CSV
	if jsonlPath != "" {
		path, format = jsonlPath, filestorage.JSONL
	}
	if path == "" {
		return errors.New("one of --csv or --jsonl is required")
	}

	env, err := bootstrap.Init(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.Logger
	ctx := cmd.Context()

	ec := env.Config.Embed
	if embedKind != "" {
		ec.Kind = embedKind
	}
	if model != "" {
		ec.Model = model
	}
	if dim > 0 {
		ec.Dim = dim
	}
	if ollamaURL != "" {
		ec.URL = ollamaURL
	}
	if dsn == "" {
		dsn = env.Config.Storage.DSN
	}
	if dsn == "" {
		return errors.New("no database: set --dsn, storage.dsn or DATABASE_URL")
	}

	embedder, err := NewEmbedder(ec)
	if err != nil {
		return err
	}
	if embedder == nil {
		logger.Warn("embeddings disabled, no RecipeEmbedding rows will be written")
	}

	recipes, err := filestorage.ReadFile(path, format)
	if err != nil {
		return err
	}
	logger.Info("recipes read", zap.String("path", path), zap.Int("count", len(recipes)))

	db, err := sqldb.New(ctx,
		sqldb.WithConnURL(dsn),
		sqldb.WithMaxConns(int32(env.Config.Storage.MaxConns)),
		sqldb.WithLogger(logger.Named("sqlDB")),
	)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if initSchema {
		if err := db.CreateSchema(ctx, ec.Dim); err != nil {
			return err
		}
		logger.Info("schema ready", zap.Int("dim", ec.Dim))
	}

	s := sqlstorage.New(db,
		sqlstorage.WithLogger(logger.Named("sqlstorage")),
		sqlstorage.WithEmbedder(embedder),
	)
	if err := s.Save(recipes...); err != nil {
		return err
	}
	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// NewEmbedder builds the embedder of the embed section. It returns nil only
// for kind "none".
func NewEmbedder(ec config.Embed) (embed.Embedder, error) {
	kind, err := embed.ParseKind(ec.Kind)
	if err != nil {
		return nil, err
	}
	return embed.New(kind, embed.WithModel(ec.Model), embed.WithDim(ec.Dim), embed.WithURL(ec.URL))
}
