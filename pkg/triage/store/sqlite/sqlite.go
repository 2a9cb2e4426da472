package sqlite

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	_ "modernc.org/sqlite"

	"github.com/cognicore/triage/pkg/triage/internalerr"
	"github.com/cognicore/triage/pkg/triage/store"
)

// Options controls which table and columns are read.
type Options struct {
	Table          string
	MessageColumn  string
	LabelOffset    int  // index of the first category column
	DecodeEntities bool // unescape HTML entities such as &amp; in messages
	Logger         *zap.Logger
}

// sqliteSource implements store.Source over a SQLite database file
type sqliteSource struct {
	db     *sqlx.DB
	path   string
	opts   Options
	logger *zap.Logger
}

// Open opens the SQLite database at path. The file must already exist;
// opening never creates an empty database.
func Open(ctx context.Context, path string, opts Options) (store.Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if opts.Table == "" || opts.MessageColumn == "" || opts.LabelOffset < 1 {
		return nil, fmt.Errorf("%w: table, message column and label offset are required", internalerr.ErrInvalidInput)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Debug("SQLite source opened", zap.String("db_path", path), zap.String("table", opts.Table))

	return &sqliteSource{db: db, path: path, opts: opts, logger: logger}, nil
}

// Close closes the database connection
func (s *sqliteSource) Close() error {
	return s.db.Close()
}

// Load reads every row of the configured table. The message column is
// located by name; every column from LabelOffset onward is a category.
func (s *sqliteSource) Load(ctx context.Context) (*store.Dataset, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+quoteIdent(s.opts.Table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", s.opts.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	msgIdx := -1
	for i, c := range cols {
		if c == s.opts.MessageColumn {
			msgIdx = i
			break
		}
	}
	if msgIdx < 0 {
		return nil, fmt.Errorf("%w: table %s has no %q column", internalerr.ErrInvalidInput, s.opts.Table, s.opts.MessageColumn)
	}
	if len(cols) <= s.opts.LabelOffset {
		return nil, fmt.Errorf("%w: table %s has %d columns, no category columns from offset %d",
			internalerr.ErrInvalidInput, s.opts.Table, len(cols), s.opts.LabelOffset)
	}

	ds := &store.Dataset{Categories: append([]string(nil), cols[s.opts.LabelOffset:]...)}
	coerced := 0

	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		msg := toString(vals[msgIdx])
		if s.opts.DecodeEntities {
			msg = html.UnescapeString(msg)
		}

		labels := make([]uint8, len(ds.Categories))
		for j, v := range vals[s.opts.LabelOffset:] {
			n, err := toNumber(v)
			if err != nil {
				return nil, fmt.Errorf("%w: column %s: %v", internalerr.ErrInvalidInput, ds.Categories[j], err)
			}
			if n != 0 {
				labels[j] = 1
				if n != 1 {
					coerced++
				}
			}
		}

		if err := ds.Append(store.Record{Message: msg, Labels: labels}); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	if coerced > 0 {
		s.logger.Warn("Non-binary label values coerced to 1", zap.Int("cells", coerced))
	}
	s.logger.Debug("Table read",
		zap.String("table", s.opts.Table),
		zap.String("db_path", s.path),
		zap.Int("messages", ds.Len()),
		zap.Int("categories", len(ds.Categories)))

	return ds, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func toNumber(v interface{}) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
	default:
		return 0, fmt.Errorf("unsupported label value %T", v)
	}
}
