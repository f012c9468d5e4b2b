package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyClean(t *testing.T) {
	s := newSeededStore(t)

	mismatches, err := s.Verify(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestVerifyMissingTable(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, s.client.Exec(ctx, `DROP TABLE "Rating"`))

	mismatches, err := s.Verify(ctx)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "Rating", mismatches[0].Table)
}

func TestVerifyEmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	mismatches, err := s.Verify(context.Background())
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Len(t, mismatches, 7)
}

func TestLiveSchemaShape(t *testing.T) {
	s := newSeededStore(t)

	live, err := s.LiveSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, live.Tables, 7)

	album := live.Table("Album")
	require.NotNil(t, album)
	assert.Equal(t, []string{"album_id"}, album.PrimaryKey)
	assert.True(t, album.HasUnique("artist_id", "title"))
	assert.False(t, album.Column("artist_id").IsUnique)

	rating := live.Table("Rating")
	require.NotNil(t, rating)
	assert.Equal(t, []string{"username", "song_id", "rating_date"}, rating.PrimaryKey)
	assert.Len(t, rating.Relations, 2)

	artist := live.Table("Artist")
	require.NotNil(t, artist)
	assert.True(t, artist.Column("name").IsUnique)
	assert.True(t, artist.Column("artist_id").AutoIncrement)
}
