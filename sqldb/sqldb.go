// Package sqldb stores recipes and their embeddings in Postgres.
package sqldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/izorzok/crawler/embed"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

type DBer interface {
	// CreateSchema creates the tables and seeds the category and region rows.
	CreateSchema(ctx context.Context, dim int) error
	// InTx runs fn in one transaction, committed only when fn returns nil.
	InTx(ctx context.Context, fn func(Tx) error) error
	Close()
}

type Tx interface {
	SettlementID(ctx context.Context, name string) (*int64, error)
	UpsertRecipe(ctx context.Context, row RecipeRow) (int64, error)
	UpsertEmbedding(ctx context.Context, row EmbeddingRow) error
}

// RecipeRow is one "Recipe" row as written by the loader.
type RecipeRow struct {
	URL             string
	Title           string
	Year            *int
	SettlementID    *int64
	SettlementName  *string
	CategoryID      *int
	IngredientsText string
}

type EmbeddingRow struct {
	RecipeID  int64
	Model     string
	Dim       int
	Embedding pgvector.Vector
}

type Sqldb struct {
	options
	pool *pgxpool.Pool
}

func New(ctx context.Context, opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	d := &Sqldb{}
	d.options = options

	if err := d.OpenDB(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Sqldb) OpenDB(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(d.sqlURL)
	if err != nil {
		return fmt.Errorf("parse dsn: %w", err)
	}
	if d.maxConns > 0 {
		cfg.MaxConns = d.maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping: %w", err)
	}

	d.pool = pool

	return nil
}

func (d *Sqldb) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

func (d *Sqldb) CreateSchema(ctx context.Context, dim int) error {
	stmts, err := SchemaSQL(dim)
	if err != nil {
		return err
	}

	return d.InTx(ctx, func(t Tx) error {
		tx := t.(*pgTx).tx
		for _, sql := range stmts {
			d.logger.Debug("create table", zap.String("sql", sql))
			if _, err := tx.Exec(ctx, sql); err != nil {
				return fmt.Errorf("schema: %w", err)
			}
		}

		b := &pgx.Batch{}
		rows := seedRows()
		for _, r := range rows {
			b.Queue(`INSERT INTO `+quote(r.table)+` (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, r.id, r.name)
		}
		br := tx.SendBatch(ctx, b)
		for range rows {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("seed: %w", err)
			}
		}
		return br.Close()
	})
}

func (d *Sqldb) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(&pgTx{tx: tx, logger: d.logger}); err != nil {
		if rerr := tx.Rollback(ctx); rerr != nil {
			d.logger.Error("rollback failed", zap.Error(rerr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type pgTx struct {
	tx     pgx.Tx
	logger *zap.Logger
}

// SettlementID looks the name up exactly, then case insensitively.
// Unknown names give nil.
func (t *pgTx) SettlementID(ctx context.Context, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	for _, sql := range []string{
		`SELECT id FROM "Settlement" WHERE name = $1 LIMIT 1`,
		`SELECT id FROM "Settlement" WHERE name ILIKE $1 LIMIT 1`,
	} {
		var id int64
		err := t.tx.QueryRow(ctx, sql, name).Scan(&id)
		if err == nil {
			return &id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settlement %q: %w", name, err)
		}
	}
	return nil, nil
}

func (t *pgTx) UpsertRecipe(ctx context.Context, row RecipeRow) (int64, error) {
	sql, err := UpsertSQL(recipeUpsert)
	if err != nil {
		return 0, err
	}
	t.logger.Debug("upsert recipe", zap.String("url", row.URL))

	var id int64
	err = t.tx.QueryRow(ctx, sql,
		row.URL, row.Title, row.Year, row.SettlementID, row.SettlementName, row.CategoryID, row.IngredientsText,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert recipe %s: %w", row.URL, err)
	}
	return id, nil
}

func (t *pgTx) UpsertEmbedding(ctx context.Context, row EmbeddingRow) error {
	if n := len(row.Embedding.Slice()); n != row.Dim {
		return fmt.Errorf("recipe %d: %w: got %d, want %d", row.RecipeID, embed.ErrDimension, n, row.Dim)
	}
	sql, err := UpsertSQL(embeddingUpsert)
	if err != nil {
		return err
	}

	_, err = t.tx.Exec(ctx, sql, row.RecipeID, row.Model, row.Dim, embed.Literal(row.Embedding))
	if err != nil {
		return fmt.Errorf("upsert embedding %d: %w", row.RecipeID, err)
	}
	return nil
}
