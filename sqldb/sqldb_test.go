package sqldb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableSQL(t *testing.T) {
	tests := []struct {
		name    string
		table   TableData
		want    string
		wantErr error
	}{
		{
			name:    "no columns",
			table:   TableData{TableName: "Empty"},
			wantErr: ErrNoColumns,
		},
		{
			name: "plain",
			table: TableData{
				TableName:   "Category",
				ColumnNames: []Field{{Title: "id", Type: "integer PRIMARY KEY"}, {Title: "name", Type: "text"}},
			},
			want: `CREATE TABLE IF NOT EXISTS "Category" (id integer PRIMARY KEY, name text)`,
		},
		{
			name: "auto key and constraint",
			table: TableData{
				TableName:   "Tag",
				ColumnNames: []Field{{Title: "name", Type: "text"}},
				Constraints: []string{"UNIQUE (name)"},
				AutoKey:     true,
			},
			want: `CREATE TABLE IF NOT EXISTS "Tag" (id bigserial PRIMARY KEY, name text, UNIQUE (name))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateTableSQL(tt.table)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpsertSQL(t *testing.T) {
	got, err := UpsertSQL(recipeUpsert)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "Recipe" (url, title, year, settlement_id, settlement_name, category_id, ingredients_text) `+
		`VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title, year = EXCLUDED.year, `+
		`settlement_id = EXCLUDED.settlement_id, settlement_name = EXCLUDED.settlement_name, category_id = EXCLUDED.category_id, `+
		`ingredients_text = EXCLUDED.ingredients_text RETURNING id`, got)

	got, err = UpsertSQL(embeddingUpsert)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "RecipeEmbedding" (recipe_id, model, dim, embedding) VALUES ($1, $2, $3, $4::vector) `+
		`ON CONFLICT (recipe_id) DO UPDATE SET model = EXCLUDED.model, dim = EXCLUDED.dim, embedding = EXCLUDED.embedding`, got)

	got, err = UpsertSQL(Upsert{TableName: "Seen", Columns: []string{"url"}, Conflict: "url"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "Seen" (url) VALUES ($1) ON CONFLICT (url) DO NOTHING`, got)

	_, err = UpsertSQL(Upsert{TableName: "Seen"})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestSchemaSQL(t *testing.T) {
	stmts, err := SchemaSQL(384)
	require.NoError(t, err)
	require.NotEmpty(t, stmts)

	assert.Equal(t, `CREATE EXTENSION IF NOT EXISTS vector`, stmts[0])
	joined := strings.Join(stmts, ";\n")
	assert.Contains(t, joined, `embedding vector(384) NOT NULL`)
	assert.Contains(t, joined, `ALTER TABLE "Recipe" ADD COLUMN IF NOT EXISTS category_id`)

	// referenced tables come first
	order := []string{`"Category"`, `"Region"`, `"Settlement"`, `"Recipe"`, `"RecipeEmbedding"`}
	last := -1
	for _, table := range order {
		idx := strings.Index(joined, `CREATE TABLE IF NOT EXISTS `+table+` (`)
		require.Greater(t, idx, last, table)
		last = idx
	}
}

func TestSeedRows(t *testing.T) {
	rows := seedRows()
	var categories, regions int
	for _, r := range rows {
		switch r.table {
		case TableCategory:
			categories++
		case TableRegion:
			regions++
		}
	}
	assert.Equal(t, 13, categories)
	assert.Equal(t, 20, regions)
}
