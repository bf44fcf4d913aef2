package sqldb

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNoColumns = errors.New("column can not be empty")

type Field struct {
	Title string
	Type  string
}

type TableData struct {
	TableName   string
	ColumnNames []Field  // 标题字段
	Constraints []string // table level constraints, appended after the columns
	AutoKey     bool     // adds an "id bigserial" primary key
}

// Upsert describes an INSERT ... ON CONFLICT DO UPDATE statement.
type Upsert struct {
	TableName string
	Columns   []string
	Casts     map[string]string // column -> type cast of its placeholder
	Conflict  string            // conflict target column
	Returning string
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func CreateTableSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", ErrNoColumns
	}

	var b strings.Builder
	b.WriteString(`CREATE TABLE IF NOT EXISTS ` + quote(t.TableName) + " (")

	var parts []string
	if t.AutoKey {
		parts = append(parts, `id bigserial PRIMARY KEY`)
	}
	for _, f := range t.ColumnNames {
		parts = append(parts, f.Title+` `+f.Type)
	}
	parts = append(parts, t.Constraints...)

	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	return b.String(), nil
}

// AddColumnsSQL brings an older table up to date with t.
func AddColumnsSQL(t TableData) []string {
	var out []string
	for _, f := range t.ColumnNames {
		out = append(out, `ALTER TABLE `+quote(t.TableName)+` ADD COLUMN IF NOT EXISTS `+f.Title+` `+f.Type)
	}
	return out
}

func UpsertSQL(u Upsert) (string, error) {
	if len(u.Columns) == 0 {
		return "", ErrNoColumns
	}

	holders := make([]string, len(u.Columns))
	var updates []string
	for i, c := range u.Columns {
		holders[i] = "$" + strconv.Itoa(i+1)
		if cast, ok := u.Casts[c]; ok {
			holders[i] += "::" + cast
		}
		if c != u.Conflict {
			updates = append(updates, c+" = EXCLUDED."+c)
		}
	}

	sql := `INSERT INTO ` + quote(u.TableName) + ` (` + strings.Join(u.Columns, ", ") + `) VALUES (` +
		strings.Join(holders, ", ") + `)`

	switch {
	case u.Conflict == "":
	case len(updates) == 0:
		sql += ` ON CONFLICT (` + u.Conflict + `) DO NOTHING`
	default:
		sql += ` ON CONFLICT (` + u.Conflict + `) DO UPDATE SET ` + strings.Join(updates, ", ")
	}

	if u.Returning != "" {
		sql += ` RETURNING ` + u.Returning
	}
	return sql, nil
}
