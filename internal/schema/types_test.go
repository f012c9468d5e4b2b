package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUnique(t *testing.T) {
	table := &Table{
		Name:       "Album",
		PrimaryKey: []string{"album_id"},
		Columns: []Column{
			{Name: "album_id"},
			{Name: "artist_id"},
			{Name: "title"},
			{Name: "code", IsUnique: true},
		},
		Indexes: []Index{
			{Name: "uq_album_artist_title", Columns: []string{"artist_id", "title"}, IsUnique: true},
			{Name: "idx_title", Columns: []string{"title"}},
		},
	}

	assert.True(t, table.HasUnique("album_id"))
	assert.True(t, table.HasUnique("code"))
	assert.True(t, table.HasUnique("artist_id", "title"))
	assert.False(t, table.HasUnique("title", "artist_id"))
	assert.False(t, table.HasUnique("title"))
	assert.False(t, table.HasUnique("artist_id"))
}

func TestMarkUniqueColumns(t *testing.T) {
	table := &Table{
		PrimaryKey: []string{"id"},
		Columns:    []Column{{Name: "id"}, {Name: "name"}, {Name: "a"}, {Name: "b"}},
		Indexes: []Index{
			{Name: "pk_like", Columns: []string{"id"}, IsUnique: true},
			{Name: "uq_name", Columns: []string{"name"}, IsUnique: true},
			{Name: "uq_ab", Columns: []string{"a", "b"}, IsUnique: true},
		},
	}

	table.MarkUniqueColumns()

	assert.False(t, table.Column("id").IsUnique)
	assert.True(t, table.Column("name").IsUnique)
	assert.False(t, table.Column("a").IsUnique)
	assert.False(t, table.Column("b").IsUnique)
}

func TestLookups(t *testing.T) {
	s := &Schema{Tables: []Table{
		{Name: "Artist", Columns: []Column{{Name: "artist_id", AutoIncrement: true}, {Name: "name"}}},
		{Name: "Song_genre", Columns: []Column{{Name: "song_id"}, {Name: "genre_id"}}},
	}}

	assert.Equal(t, []string{"Artist", "Song_genre"}, s.TableNames())
	assert.Nil(t, s.Table("Missing"))
	assert.Nil(t, s.Table("Artist").Column("missing"))

	col, ok := s.Table("Artist").AutoIncrementColumn()
	assert.True(t, ok)
	assert.Equal(t, "artist_id", col)

	_, ok = s.Table("Song_genre").AutoIncrementColumn()
	assert.False(t, ok)
}
