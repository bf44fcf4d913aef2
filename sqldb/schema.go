package sqldb

import (
	"fmt"

	"github.com/izorzok/crawler/recipe"
)

const (
	TableCategory        = "Category"
	TableRegion          = "Region"
	TableSettlement      = "Settlement"
	TableRecipe          = "Recipe"
	TableRecipeEmbedding = "RecipeEmbedding"
)

var (
	categoryTable = TableData{
		TableName:   TableCategory,
		ColumnNames: []Field{{Title: "id", Type: "integer PRIMARY KEY"}, {Title: "name", Type: "text"}},
	}
	regionTable = TableData{
		TableName:   TableRegion,
		ColumnNames: []Field{{Title: "id", Type: "integer PRIMARY KEY"}, {Title: "name", Type: "text"}},
	}
	// normally loaded with geometries by the settlement importer
	settlementTable = TableData{
		TableName: TableSettlement,
		ColumnNames: []Field{
			{Title: "id", Type: "integer PRIMARY KEY"},
			{Title: "name", Type: "text"},
			{Title: "regionid", Type: `integer REFERENCES "Region"(id)`},
		},
	}
	recipeTable = TableData{
		TableName: TableRecipe,
		ColumnNames: []Field{
			{Title: "url", Type: "text NOT NULL UNIQUE"},
			{Title: "title", Type: "text NOT NULL"},
			{Title: "year", Type: "integer"},
			{Title: "settlement_id", Type: `integer REFERENCES "Settlement"(id)`},
			{Title: "settlement_name", Type: "text"},
			{Title: "category_id", Type: `integer REFERENCES "Category"(id)`},
			{Title: "ingredients_text", Type: "text NOT NULL"},
			{Title: "created_at", Type: "timestamptz NOT NULL DEFAULT now()"},
		},
		AutoKey: true,
	}
	// columns added after the first release of the table
	recipeLateColumns = TableData{
		TableName:   TableRecipe,
		ColumnNames: []Field{{Title: "category_id", Type: `integer REFERENCES "Category"(id)`}},
	}
)

func embeddingTable(dim int) TableData {
	return TableData{
		TableName: TableRecipeEmbedding,
		ColumnNames: []Field{
			{Title: "recipe_id", Type: `bigint PRIMARY KEY REFERENCES "Recipe"(id) ON DELETE CASCADE`},
			{Title: "model", Type: "text NOT NULL"},
			{Title: "dim", Type: "integer NOT NULL"},
			{Title: "embedding", Type: fmt.Sprintf("vector(%d) NOT NULL", dim)},
		},
	}
}

// SchemaSQL lists the statements that create the loader's tables, in order.
func SchemaSQL(dim int) ([]string, error) {
	stmts := []string{`CREATE EXTENSION IF NOT EXISTS vector`}
	for _, t := range []TableData{categoryTable, regionTable, settlementTable, recipeTable, embeddingTable(dim)} {
		sql, err := CreateTableSQL(t)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.TableName, err)
		}
		stmts = append(stmts, sql)
	}
	stmts = append(stmts, AddColumnsSQL(recipeLateColumns)...)
	stmts = append(stmts, `CREATE INDEX IF NOT EXISTS recipe_year_idx ON "Recipe" (year)`)
	return stmts, nil
}

// seed rows for the fixed lookup tables
type seedRow struct {
	table string
	id    int
	name  string
}

func seedRows() []seedRow {
	var rows []seedRow
	for _, c := range recipe.Categories() {
		rows = append(rows, seedRow{TableCategory, c.ID, c.Name})
	}
	for _, r := range recipe.Regions() {
		rows = append(rows, seedRow{TableRegion, r.ID, r.Name})
	}
	return rows
}

var (
	recipeUpsert = Upsert{
		TableName: TableRecipe,
		Columns:   []string{"url", "title", "year", "settlement_id", "settlement_name", "category_id", "ingredients_text"},
		Conflict:  "url",
		Returning: "id",
	}
	embeddingUpsert = Upsert{
		TableName: TableRecipeEmbedding,
		Columns:   []string{"recipe_id", "model", "dim", "embedding"},
		Casts:     map[string]string{"embedding": "vector"},
		Conflict:  "recipe_id",
	}
)
