package sqlstorage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/izorzok/crawler/embed"
	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/sqldb"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDB keeps committed rows in maps; a transaction works on a copy.
type memDB struct {
	settlements map[string]int64
	recipes     map[string]sqldb.RecipeRow
	ids         map[string]int64
	embeddings  map[int64]sqldb.EmbeddingRow
	nextID      int64
}

func newMemDB() *memDB {
	return &memDB{
		settlements: map[string]int64{"Szentes": 7},
		recipes:     map[string]sqldb.RecipeRow{},
		ids:         map[string]int64{},
		embeddings:  map[int64]sqldb.EmbeddingRow{},
	}
}

func (m *memDB) CreateSchema(context.Context, int) error { return nil }

func (m *memDB) Close() {}

func (m *memDB) InTx(ctx context.Context, fn func(sqldb.Tx) error) error {
	tx := &memTx{db: m, recipes: map[string]sqldb.RecipeRow{}, ids: map[string]int64{}, embeddings: map[int64]sqldb.EmbeddingRow{}, nextID: m.nextID}
	for k, v := range m.recipes {
		tx.recipes[k] = v
	}
	for k, v := range m.ids {
		tx.ids[k] = v
	}
	for k, v := range m.embeddings {
		tx.embeddings[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.recipes, m.ids, m.embeddings, m.nextID = tx.recipes, tx.ids, tx.embeddings, tx.nextID
	return nil
}

type memTx struct {
	db         *memDB
	recipes    map[string]sqldb.RecipeRow
	ids        map[string]int64
	embeddings map[int64]sqldb.EmbeddingRow
	nextID     int64
}

func (t *memTx) SettlementID(_ context.Context, name string) (*int64, error) {
	if id, ok := t.db.settlements[name]; ok {
		return &id, nil
	}
	for k, id := range t.db.settlements {
		if strings.EqualFold(k, name) {
			id := id
			return &id, nil
		}
	}
	return nil, nil
}

func (t *memTx) UpsertRecipe(_ context.Context, row sqldb.RecipeRow) (int64, error) {
	id, ok := t.ids[row.URL]
	if !ok {
		t.nextID++
		id = t.nextID
		t.ids[row.URL] = id
	}
	t.recipes[row.URL] = row
	return id, nil
}

func (t *memTx) UpsertEmbedding(_ context.Context, row sqldb.EmbeddingRow) error {
	t.embeddings[row.RecipeID] = row
	return nil
}

type failingEmbedder struct {
	embed.Embedder
	failOn string
}

func (f failingEmbedder) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	if strings.Contains(text, f.failOn) {
		return pgvector.Vector{}, errors.New("model unavailable")
	}
	return f.Embedder.Embed(ctx, text)
}

func TestFlushUpsertKeepsLastTitle(t *testing.T) {
	db := newMemDB()
	s := New(db)
	ctx := context.Background()

	require.NoError(t, s.Save(&recipe.Recipe{URL: "https://www.izorzok.hu/a/", Title: "Első"}))
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Save(&recipe.Recipe{URL: "https://www.izorzok.hu/a/", Title: "Második"}))
	require.NoError(t, s.Flush(ctx))

	require.Len(t, db.recipes, 1)
	assert.Equal(t, "Második", db.recipes["https://www.izorzok.hu/a/"].Title)
	assert.Equal(t, int64(1), db.ids["https://www.izorzok.hu/a/"])
	assert.Empty(t, db.embeddings)
	assert.Nil(t, s.dataDocker)
}

func TestFlushRowFields(t *testing.T) {
	db := newMemDB()
	s := New(db, WithEmbedder(embed.NewHash(8)))

	require.NoError(t, s.Save(
		&recipe.Recipe{
			URL:         "https://www.izorzok.hu/makos-retes/",
			Title:       "Mákos rétes",
			Year:        recipe.IntPtr(2016),
			Settlement:  recipe.StringPtr("szentes"),
			Ingredients: []string{"50 dkg liszt", "2 tojás"},
			CategoryID:  recipe.IntPtr(12),
		},
		&recipe.Recipe{
			URL:        "https://www.izorzok.hu/b/",
			Settlement: recipe.StringPtr("Atlantisz"),
			CategoryID: recipe.IntPtr(99),
		},
	))
	require.NoError(t, s.Flush(context.Background()))

	row := db.recipes["https://www.izorzok.hu/makos-retes/"]
	require.NotNil(t, row.SettlementID)
	assert.Equal(t, int64(7), *row.SettlementID)
	assert.Equal(t, "szentes", *row.SettlementName)
	assert.Equal(t, "50 dkg liszt | 2 tojás", row.IngredientsText)
	assert.Equal(t, recipe.IntPtr(12), row.CategoryID)

	other := db.recipes["https://www.izorzok.hu/b/"]
	assert.Nil(t, other.SettlementID)
	assert.Equal(t, "Atlantisz", *other.SettlementName)
	assert.Nil(t, other.CategoryID)

	require.Len(t, db.embeddings, 2)
	e := db.embeddings[db.ids["https://www.izorzok.hu/makos-retes/"]]
	assert.Equal(t, "hash-bow", e.Model)
	assert.Equal(t, 8, e.Dim)
	assert.Len(t, e.Embedding.Slice(), 8)
}

func TestFlushRollsBackOnError(t *testing.T) {
	db := newMemDB()
	s := New(db, WithEmbedder(failingEmbedder{Embedder: embed.NewHash(8), failOn: "Rossz"}))

	require.NoError(t, s.Save(
		&recipe.Recipe{URL: "https://www.izorzok.hu/jo/", Title: "Jó"},
		&recipe.Recipe{URL: "https://www.izorzok.hu/rossz/", Title: "Rossz"},
	))
	err := s.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	assert.Empty(t, db.recipes)
	assert.Empty(t, db.embeddings)
	assert.Nil(t, s.dataDocker)
}

func TestEmbedText(t *testing.T) {
	r := &recipe.Recipe{Title: " Túrós  csusza", Ingredients: []string{"50 dkg tészta", "25 dkg túró"}}
	assert.Equal(t, "Túrós csusza. 50 dkg tészta | 25 dkg túró", EmbedText(r))
	assert.Equal(t, ".", EmbedText(&recipe.Recipe{}))
}

func TestFlushEmpty(t *testing.T) {
	assert.NoError(t, New(nil).Flush(context.Background()))
}
