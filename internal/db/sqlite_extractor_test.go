package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extractorFixture = `
CREATE TABLE users (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    bio      TEXT,
    status   TEXT NOT NULL DEFAULT 'active'
);
CREATE TABLE posts (
    id      INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users (id),
    slug    TEXT NOT NULL,
    CONSTRAINT uq_posts_user_slug UNIQUE (user_id, slug)
);
CREATE INDEX idx_posts_slug ON posts (slug);
CREATE TABLE tags (
    post_id INTEGER NOT NULL REFERENCES posts (id),
    tag     TEXT NOT NULL,
    PRIMARY KEY (tag, post_id)
);
CREATE TABLE schema_migrations (version INTEGER, dirty BOOLEAN);
`

func newFixtureClient(t *testing.T) *Client {
	t.Helper()

	ctx := context.Background()
	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "fixture.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Exec(ctx, extractorFixture))
	return client
}

func TestSQLiteExtractorAllTables(t *testing.T) {
	client := newFixtureClient(t)

	extractor, err := NewExtractor(client)
	require.NoError(t, err)

	s, err := extractor.ExtractSchema(context.Background(), nil)
	require.NoError(t, err)

	// Bookkeeping tables are left out and names come back sorted
	assert.Equal(t, []string{"posts", "tags", "users"}, s.TableNames())

	users := s.Table("users")
	require.NotNil(t, users)
	assert.Equal(t, []string{"id"}, users.PrimaryKey)
	assert.True(t, users.Column("id").AutoIncrement)
	assert.False(t, users.Column("id").Nullable)
	assert.True(t, users.Column("username").IsUnique)
	assert.True(t, users.Column("bio").Nullable)
	require.NotNil(t, users.Column("status").DefaultValue)
	assert.Equal(t, "'active'", *users.Column("status").DefaultValue)

	posts := s.Table("posts")
	require.NotNil(t, posts)
	assert.False(t, posts.Column("id").AutoIncrement)
	require.Len(t, posts.Relations, 1)
	assert.Equal(t, "users", posts.Relations[0].TargetTable)
	assert.Equal(t, "id", posts.Relations[0].TargetColumn)
	assert.Equal(t, "user_id", posts.Relations[0].SourceColumn)
	assert.True(t, posts.HasUnique("user_id", "slug"))
	assert.False(t, posts.Column("slug").IsUnique)

	var found bool
	for _, idx := range posts.Indexes {
		if idx.Name == "idx_posts_slug" {
			found = true
			assert.False(t, idx.IsUnique)
			assert.Equal(t, []string{"slug"}, idx.Columns)
		}
	}
	assert.True(t, found, "idx_posts_slug not extracted")

	tags := s.Table("tags")
	require.NotNil(t, tags)
	assert.Equal(t, []string{"tag", "post_id"}, tags.PrimaryKey)
}

func TestSQLiteExtractorRequestedTables(t *testing.T) {
	client := newFixtureClient(t)

	s, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), []string{"tags", "missing", "users"})
	require.NoError(t, err)

	assert.Equal(t, []string{"tags", "users"}, s.TableNames())
}
