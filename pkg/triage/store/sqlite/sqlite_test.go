package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/triage/pkg/triage/internalerr"
	"github.com/cognicore/triage/pkg/triage/store/sqlite/sqlitetest"
)

func defaultOptions() Options {
	return Options{Table: "DisasterResponse", MessageColumn: "message", LabelOffset: 4}
}

func TestLoadFixture(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "disaster.db")

	cats := []string{"related", "water", "shelter"}
	rows := []sqlitetest.FixtureRow{
		{Message: "We need water", Genre: "direct", Labels: []int{1, 1, 0}},
		{Message: "Our house fell down", Genre: "direct", Labels: []int{2, 0, 1}},
		{Message: "Weather is nice", Genre: "news", Labels: []int{0, 0, 0}},
	}
	require.NoError(t, sqlitetest.CreateFixture(ctx, dbPath, "DisasterResponse", cats, rows))

	src, err := Open(ctx, dbPath, defaultOptions())
	require.NoError(t, err)
	defer src.Close()

	ds, err := src.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, cats, ds.Categories)
	assert.Equal(t, []string{"We need water", "Our house fell down", "Weather is nice"}, ds.Messages)
	assert.Equal(t, [][]uint8{{1, 1, 0}, {1, 0, 1}, {0, 0, 0}}, ds.Labels)
}

func TestOpenMissingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	_, err := Open(context.Background(), dbPath, defaultOptions())
	assert.ErrorIs(t, err, internalerr.ErrStoreUnavailable)
	assert.NoFileExists(t, dbPath)
}

func TestLoadMissingTable(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "other.db")
	require.NoError(t, sqlitetest.CreateFixture(ctx, dbPath, "Other", []string{"water"}, nil))

	src, err := Open(ctx, dbPath, defaultOptions())
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(ctx)
	assert.Error(t, err)
}

func TestLoadMissingMessageColumn(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nomsg.db")

	db, err := sqlx.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE DisasterResponse (id INTEGER, text TEXT, original TEXT, genre TEXT, water INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src, err := Open(ctx, dbPath, defaultOptions())
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestLoadDecodeEntities(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "entities.db")
	rows := []sqlitetest.FixtureRow{{Message: "food &amp; water", Labels: []int{1}}}
	require.NoError(t, sqlitetest.CreateFixture(ctx, dbPath, "DisasterResponse", []string{"water"}, rows))

	opts := defaultOptions()
	opts.DecodeEntities = true
	src, err := Open(ctx, dbPath, opts)
	require.NoError(t, err)
	defer src.Close()

	ds, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "food & water", ds.Messages[0])
}

func TestLoadCustomOffset(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "offset.db")
	rows := []sqlitetest.FixtureRow{{Message: "help", Labels: []int{1, 0}}}
	require.NoError(t, sqlitetest.CreateFixture(ctx, dbPath, "DisasterResponse", []string{"aid", "fire"}, rows))

	opts := defaultOptions()
	opts.LabelOffset = 5
	src, err := Open(ctx, dbPath, opts)
	require.NoError(t, err)
	defer src.Close()

	ds, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fire"}, ds.Categories)
	assert.Equal(t, [][]uint8{{0}}, ds.Labels)
}
