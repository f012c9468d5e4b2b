package musicdb

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/musicdb/internal/db"
)

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantDialect db.Dialect
		wantConn    string
		wantErr     bool
	}{
		{name: "postgres", url: "postgres://u:p@localhost/music", wantDialect: db.Postgres, wantConn: "postgres://u:p@localhost/music"},
		{name: "postgresql", url: "postgresql://u:p@localhost/music", wantDialect: db.Postgres, wantConn: "postgresql://u:p@localhost/music"},
		{name: "mysql", url: "mysql://u:p@tcp(localhost:3306)/music", wantDialect: db.MySQL, wantConn: "u:p@tcp(localhost:3306)/music"},
		{name: "sqlite", url: "sqlite://data/music.db", wantDialect: db.SQLite, wantConn: "data/music.db"},
		{name: "sqlite without path", url: "sqlite://", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "unknown scheme", url: "oracle://x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, conn, err := parseDatabaseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantConn, conn)
		})
	}
}

func sqliteURL(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "music.db")
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	url := sqliteURL(t)

	require.NoError(t, Setup(ctx, url, nil))
	// Setup starts over on an existing database
	require.NoError(t, Setup(ctx, url, nil))

	mdb, err := Open(ctx, url, nil)
	require.NoError(t, err)
	defer mdb.Close()

	assert.Equal(t, "sqlite", mdb.Dialect())

	counts, err := mdb.Counts(ctx)
	require.NoError(t, err)
	want := map[string]int64{
		"Artist": 2, "Genre": 2, "User": 2, "Album": 1,
		"Song": 2, "Song_genre": 2, "Rating": 2,
	}
	for _, c := range counts {
		assert.Equal(t, want[c.Table], c.Rows, c.Table)
	}

	mismatches, err := mdb.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestInsertThroughFacade(t *testing.T) {
	ctx := context.Background()
	url := sqliteURL(t)
	require.NoError(t, Setup(ctx, url, nil))

	mdb, err := Open(ctx, url, nil)
	require.NoError(t, err)
	defer mdb.Close()

	assert.ErrorIs(t, mdb.Insert(ctx, &Artist{Name: "A1"}), ErrDuplicateKey)
	assert.ErrorIs(t, mdb.Insert(ctx, &Song{ArtistID: 7, Title: "Lost"}), ErrForeignKey)

	user := &User{Username: "user3"}
	require.NoError(t, mdb.Insert(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	rating := &Rating{Username: "user3", SongID: 2, RatingDate: NewDate(2022, 1, 5), Score: 3}
	require.NoError(t, mdb.Insert(ctx, rating))
	require.NoError(t, mdb.Delete(ctx, rating))
	assert.ErrorIs(t, mdb.Delete(ctx, rating), ErrNotFound)
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "ftp://nowhere", nil)
	assert.Error(t, err)
}

func TestModelOrder(t *testing.T) {
	m, err := Model()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Artist", "Genre", "User", "Album", "Song", "Song_genre", "Rating"},
		m.TableNames())
}

func TestDescribeModel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DescribeModel(&OutputOptions{Writer: &buf, Format: "markdown"}))

	out := buf.String()
	assert.Contains(t, out, "## Rating")
	assert.Contains(t, out, "- uq_album_artist_title on (artist_id, title), unique")

	err := DescribeModel(&OutputOptions{Writer: &bytes.Buffer{}, Format: "yaml"})
	assert.Error(t, err)
}

func TestDescribeLiveToDirectory(t *testing.T) {
	ctx := context.Background()
	url := sqliteURL(t)
	require.NoError(t, Setup(ctx, url, nil))

	mdb, err := Open(ctx, url, nil)
	require.NoError(t, err)
	defer mdb.Close()

	dir := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, mdb.Describe(ctx, &OutputOptions{OutputDir: dir}))

	for _, name := range mdb.CreationOrder() {
		assert.FileExists(t, filepath.Join(dir, name+".txt"))
	}
	overview, err := os.ReadFile(filepath.Join(dir, "_overview.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(overview), "Rating (references: ")
}

func TestDescribeModelMarkdownAliasToDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, DescribeModel(&OutputOptions{OutputDir: dir, Format: "md"}))

	assert.FileExists(t, filepath.Join(dir, "_overview.md"))
	assert.FileExists(t, filepath.Join(dir, "Song_genre.md"))
}

func TestDropSchemaForgetsMigrations(t *testing.T) {
	ctx := context.Background()
	url := sqliteURL(t)

	mdb, err := Open(ctx, url, nil)
	require.NoError(t, err)
	m, err := mdb.Migrator()
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	mdb, err = Open(ctx, url, nil)
	require.NoError(t, err)
	require.NoError(t, mdb.DropSchema(ctx))
	require.NoError(t, mdb.Close())

	mdb, err = Open(ctx, url, nil)
	require.NoError(t, err)
	m, err = mdb.Migrator()
	require.NoError(t, err)
	defer m.Close()

	_, _, applied, err := m.Version()
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, m.Up())
	version, _, applied, err := m.Version()
	require.NoError(t, err)
	assert.True(t, applied)
	assert.EqualValues(t, 1, version)
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()

	mdb, err := Open(ctx, sqliteURL(t), nil)
	require.NoError(t, err)

	m, err := mdb.Migrator()
	require.NoError(t, err)

	_, _, applied, err := m.Version()
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, m.Up())
	version, dirty, applied, err := m.Version()
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, dirty)
	assert.EqualValues(t, 1, version)

	mismatches, err := mdb.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	// A second Up is a no-op
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	_, _, applied, err = m.Version()
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, m.Close())
}
