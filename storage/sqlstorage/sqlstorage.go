// Package sqlstorage loads recipes into Postgres together with their
// embeddings.
package sqlstorage

import (
	"context"
	"fmt"

	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/sqldb"
	"github.com/izorzok/crawler/strutil"
	"go.uber.org/zap"
)

type SQLStorage struct {
	dataDocker []*recipe.Recipe // 分批输出结果缓存
	db         sqldb.DBer
	options
}

func New(db sqldb.DBer, opts ...Option) *SQLStorage {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &SQLStorage{db: db}
	s.options = options

	return s
}

func (s *SQLStorage) Save(recipes ...*recipe.Recipe) error {
	s.dataDocker = append(s.dataDocker, recipes...)
	return nil
}

// EmbedText is the text a recipe is embedded from: title and ingredients.
func EmbedText(r *recipe.Recipe) string {
	return strutil.Spaces(r.Title + ". " + r.IngredientsText())
}

// Flush writes every saved recipe in a single transaction. Any error rolls
// the whole batch back; the buffer is emptied either way.
func (s *SQLStorage) Flush(ctx context.Context) error {
	if len(s.dataDocker) == 0 {
		return nil
	}

	defer func() {
		s.dataDocker = nil
	}()

	err := s.db.InTx(ctx, func(tx sqldb.Tx) error {
		for i, r := range s.dataDocker {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.insert(ctx, tx, r); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("loaded recipes", zap.Int("count", len(s.dataDocker)), zap.Bool("embeddings", s.embedder != nil))
	return nil
}

func (s *SQLStorage) insert(ctx context.Context, tx sqldb.Tx, r *recipe.Recipe) error {
	var settlementID *int64
	if r.Settlement != nil {
		id, err := tx.SettlementID(ctx, *r.Settlement)
		if err != nil {
			return err
		}
		if id == nil {
			s.logger.Debug("unknown settlement", zap.String("settlement", *r.Settlement), zap.String("url", r.URL))
		}
		settlementID = id
	}

	categoryID := r.CategoryID
	if categoryID != nil && !recipe.ValidCategory(*categoryID) {
		categoryID = nil
	}

	id, err := tx.UpsertRecipe(ctx, sqldb.RecipeRow{
		URL:             r.URL,
		Title:           r.Title,
		Year:            r.Year,
		SettlementID:    settlementID,
		SettlementName:  r.Settlement,
		CategoryID:      categoryID,
		IngredientsText: r.IngredientsText(),
	})
	if err != nil {
		return err
	}

	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, EmbedText(r))
	if err != nil {
		return fmt.Errorf("embed %s: %w", r.URL, err)
	}
	return tx.UpsertEmbedding(ctx, sqldb.EmbeddingRow{
		RecipeID:  id,
		Model:     s.embedder.Model(),
		Dim:       s.embedder.Dim(),
		Embedding: vec,
	})
}
