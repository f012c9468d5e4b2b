package model

import "github.com/tordrt/musicdb/internal/schema"

// Schema returns the declared music schema. Column types are engine neutral;
// the per-engine DDL lives in the migrations package and Verify checks that
// a live database agrees with this declaration.
func Schema() *schema.Schema {
	return &schema.Schema{Tables: []schema.Table{
		{
			Name:       TableArtist,
			PrimaryKey: []string{"artist_id"},
			Columns: []schema.Column{
				{Name: "artist_id", Type: "integer", AutoIncrement: true},
				{Name: "name", Type: "varchar(100)", IsUnique: true},
				{Name: "is_group", Type: "boolean"},
			},
		},
		{
			Name:       TableGenre,
			PrimaryKey: []string{"genre_id"},
			Columns: []schema.Column{
				{Name: "genre_id", Type: "smallint", AutoIncrement: true},
				{Name: "name", Type: "varchar(50)", IsUnique: true},
			},
		},
		{
			Name:       TableAlbum,
			PrimaryKey: []string{"album_id"},
			Columns: []schema.Column{
				{Name: "album_id", Type: "integer", AutoIncrement: true},
				{Name: "artist_id", Type: "integer"},
				{Name: "title", Type: "varchar(100)"},
				{Name: "release_date", Type: "date"},
				{Name: "genre_id", Type: "smallint"},
			},
			Relations: []schema.Relation{
				{SourceColumn: "artist_id", TargetTable: TableArtist, TargetColumn: "artist_id", Cardinality: "N:1"},
				{SourceColumn: "genre_id", TargetTable: TableGenre, TargetColumn: "genre_id", Cardinality: "N:1"},
			},
			Indexes: []schema.Index{
				{Name: "uq_album_artist_title", Columns: []string{"artist_id", "title"}, IsUnique: true},
			},
		},
		{
			Name:       TableSong,
			PrimaryKey: []string{"song_id"},
			Columns: []schema.Column{
				{Name: "song_id", Type: "integer", AutoIncrement: true},
				{Name: "artist_id", Type: "integer"},
				{Name: "title", Type: "varchar(100)"},
				{Name: "album_id", Type: "integer", Nullable: true},
				{Name: "single_release_date", Type: "date", Nullable: true},
			},
			Relations: []schema.Relation{
				{SourceColumn: "artist_id", TargetTable: TableArtist, TargetColumn: "artist_id", Cardinality: "N:1"},
				{SourceColumn: "album_id", TargetTable: TableAlbum, TargetColumn: "album_id", Cardinality: "N:1"},
			},
			Indexes: []schema.Index{
				{Name: "uq_song_artist_title", Columns: []string{"artist_id", "title"}, IsUnique: true},
			},
		},
		{
			Name:       TableSongGenre,
			PrimaryKey: []string{"song_id", "genre_id"},
			Columns: []schema.Column{
				{Name: "song_id", Type: "integer"},
				{Name: "genre_id", Type: "smallint"},
			},
			Relations: []schema.Relation{
				{SourceColumn: "song_id", TargetTable: TableSong, TargetColumn: "song_id", Cardinality: "N:1"},
				{SourceColumn: "genre_id", TargetTable: TableGenre, TargetColumn: "genre_id", Cardinality: "N:1"},
			},
		},
		{
			Name:       TableUser,
			PrimaryKey: []string{"username"},
			Columns: []schema.Column{
				{Name: "username", Type: "varchar(50)"},
				{Name: "created_at", Type: "timestamp", DefaultValue: ptr("CURRENT_TIMESTAMP")},
			},
		},
		{
			Name:       TableRating,
			PrimaryKey: []string{"username", "song_id", "rating_date"},
			Columns: []schema.Column{
				{Name: "username", Type: "varchar(50)"},
				{Name: "song_id", Type: "integer"},
				{Name: "rating_date", Type: "date"},
				{Name: "rating", Type: "smallint"},
			},
			Relations: []schema.Relation{
				{SourceColumn: "username", TargetTable: TableUser, TargetColumn: "username", Cardinality: "N:1"},
				{SourceColumn: "song_id", TargetTable: TableSong, TargetColumn: "song_id", Cardinality: "N:1"},
			},
		},
	}}
}

func ptr(s string) *string { return &s }
