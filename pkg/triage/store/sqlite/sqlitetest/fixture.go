// Package sqlitetest writes disaster-response shaped SQLite databases for tests.
package sqlitetest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// FixtureRow is one row written by CreateFixture.
type FixtureRow struct {
	Message string
	Genre   string
	Labels  []int
}

// CreateFixture writes a table shaped like the disaster-response database:
// id, message, original, genre, then one integer column per category.
func CreateFixture(ctx context.Context, path, table string, categories []string, rows []FixtureRow) error {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	cols := []string{"id INTEGER PRIMARY KEY", "message TEXT", "original TEXT", "genre TEXT"}
	for _, c := range categories {
		cols = append(cols, quoteIdent(c)+" INTEGER")
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 4+len(categories)), ", ")
	stmt, err := db.PreparexContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if len(r.Labels) != len(categories) {
			return fmt.Errorf("fixture row %d has %d labels, want %d", i, len(r.Labels), len(categories))
		}
		args := []interface{}{i + 1, r.Message, r.Message, r.Genre}
		for _, l := range r.Labels {
			args = append(args, l)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
