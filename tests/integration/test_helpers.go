//go:build integration
// +build integration

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/tordrt/musicdb"
)

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *musicdb.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Tables))
	}

	tableMap := make(map[string]bool)
	for _, table := range s.Tables {
		tableMap[table.Name] = true
	}

	for _, tableName := range expectedTables {
		if !tableMap[tableName] {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *musicdb.Table, expectedColumns []string) {
	t.Helper()

	columnMap := make(map[string]bool)
	for _, col := range table.Columns {
		columnMap[col.Name] = true
	}

	for _, colName := range expectedColumns {
		if !columnMap[colName] {
			t.Errorf("Expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *musicdb.Table, expectedPK []string) {
	t.Helper()

	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
		return
	}

	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
			return
		}
	}
}

// verifyUniqueConstraint checks that a column has a unique constraint
func verifyUniqueConstraint(t *testing.T, s *musicdb.Schema, tableName, columnName string) {
	t.Helper()

	table := findTable(s, tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	for _, col := range table.Columns {
		if col.Name == columnName {
			if !col.IsUnique {
				t.Errorf("Expected %s column to have unique constraint", columnName)
			}
			return
		}
	}

	t.Errorf("Column %s not found in table %s", columnName, tableName)
}

// verifyForeignKey checks that a foreign key relationship exists
func verifyForeignKey(t *testing.T, s *musicdb.Schema, tableName, sourceColumn, targetTable string) {
	t.Helper()

	table := findTable(s, tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	for _, rel := range table.Relations {
		if rel.TargetTable == targetTable && rel.SourceColumn == sourceColumn {
			return
		}
	}

	t.Errorf("Expected foreign key relationship from %s.%s to %s not found", tableName, sourceColumn, targetTable)
}

// verifyIndex checks that an index exists with the expected columns
func verifyIndex(t *testing.T, s *musicdb.Schema, tableName, indexName string, expectedColumns []string) {
	t.Helper()

	table := findTable(s, tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	for _, idx := range table.Indexes {
		if idx.Name == indexName {
			if len(idx.Columns) != len(expectedColumns) {
				t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
				return
			}
			for i, col := range expectedColumns {
				if idx.Columns[i] != col {
					t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
					return
				}
			}
			return
		}
	}

	t.Errorf("Expected index %s on %s table not found", indexName, tableName)
}

// findTable is a helper function to find a table by name in the schema
func findTable(s *musicdb.Schema, tableName string) *musicdb.Table {
	for i := range s.Tables {
		if s.Tables[i].Name == tableName {
			return &s.Tables[i]
		}
	}
	return nil
}

// verifyCompositeUnique checks that a table enforces uniqueness over a column set
func verifyCompositeUnique(t *testing.T, s *musicdb.Schema, tableName string, columns ...string) {
	t.Helper()

	table := findTable(s, tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}
	if !table.HasUnique(columns...) {
		t.Errorf("Expected unique constraint on %s%v", tableName, columns)
	}
}

// openFresh opens the database and leaves it holding the seeded schema
func openFresh(t *testing.T, url string) *musicdb.DB {
	t.Helper()

	ctx := context.Background()
	mdb, err := musicdb.Open(ctx, url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() {
		_ = mdb.DropSchema(context.Background())
		_ = mdb.Close()
	})

	if err := mdb.Reset(ctx); err != nil {
		t.Fatalf("Failed to reset schema: %v", err)
	}
	return mdb
}

// runMusicScenario exercises the schema, seed and constraint behavior that
// every engine must share
func runMusicScenario(t *testing.T, url string) {
	ctx := context.Background()

	t.Run("seed counts", func(t *testing.T) {
		mdb := openFresh(t, url)

		counts, err := mdb.Counts(ctx)
		if err != nil {
			t.Fatalf("Failed to count rows: %v", err)
		}
		want := map[string]int64{
			"Artist": 2, "Genre": 2, "User": 2, "Album": 1,
			"Song": 2, "Song_genre": 2, "Rating": 2,
		}
		for _, c := range counts {
			if c.Rows != want[c.Table] {
				t.Errorf("Expected %d rows in %s, got %d", want[c.Table], c.Table, c.Rows)
			}
		}
	})

	t.Run("live schema", func(t *testing.T) {
		mdb := openFresh(t, url)

		s, err := mdb.LiveSchema(ctx)
		if err != nil {
			t.Fatalf("Failed to extract schema: %v", err)
		}

		verifyTablesExist(t, s, []string{"Artist", "Genre", "User", "Album", "Song", "Song_genre", "Rating"})
		verifyColumns(t, findTable(s, "Song"), []string{"song_id", "artist_id", "title", "album_id", "single_release_date"})
		verifyPrimaryKey(t, findTable(s, "Rating"), []string{"username", "song_id", "rating_date"})
		verifyPrimaryKey(t, findTable(s, "Song_genre"), []string{"song_id", "genre_id"})
		verifyUniqueConstraint(t, s, "Artist", "name")
		verifyUniqueConstraint(t, s, "Genre", "name")
		verifyCompositeUnique(t, s, "Album", "artist_id", "title")
		verifyCompositeUnique(t, s, "Song", "artist_id", "title")
		verifyForeignKey(t, s, "Album", "artist_id", "Artist")
		verifyForeignKey(t, s, "Album", "genre_id", "Genre")
		verifyForeignKey(t, s, "Song", "album_id", "Album")
		verifyForeignKey(t, s, "Rating", "username", "User")
		verifyForeignKey(t, s, "Rating", "song_id", "Song")

		mismatches, err := mdb.Verify(ctx)
		if err != nil {
			t.Fatalf("Verify failed: %v %v", err, mismatches)
		}
	})

	t.Run("constraints", func(t *testing.T) {
		mdb := openFresh(t, url)

		if err := mdb.Insert(ctx, &musicdb.Artist{Name: "A1"}); !errors.Is(err, musicdb.ErrDuplicateKey) {
			t.Errorf("Expected duplicate key for artist A1, got %v", err)
		}
		album := &musicdb.Album{ArtistID: 99, Title: "Ghost", ReleaseDate: musicdb.NewDate(2020, 1, 1), GenreID: 1}
		if err := mdb.Insert(ctx, album); !errors.Is(err, musicdb.ErrForeignKey) {
			t.Errorf("Expected foreign key violation for missing artist, got %v", err)
		}
		dup := &musicdb.Album{ArtistID: 2, Title: "Album1", ReleaseDate: musicdb.NewDate(2020, 1, 1), GenreID: 1}
		if err := mdb.Insert(ctx, dup); !errors.Is(err, musicdb.ErrDuplicateKey) {
			t.Errorf("Expected duplicate key for Album1, got %v", err)
		}
		if err := mdb.Delete(ctx, &musicdb.Artist{ID: 2}); !errors.Is(err, musicdb.ErrForeignKey) {
			t.Errorf("Expected foreign key violation deleting artist 2, got %v", err)
		}
		if err := mdb.CreateSchema(ctx); !errors.Is(err, musicdb.ErrAlreadyExists) {
			t.Errorf("Expected already exists on second create, got %v", err)
		}
	})

	t.Run("next identifiers", func(t *testing.T) {
		mdb := openFresh(t, url)

		artist := &musicdb.Artist{Name: "A3"}
		genre := &musicdb.Genre{Name: "Jazz"}
		album := &musicdb.Album{ArtistID: 1, Title: "Debut", ReleaseDate: musicdb.NewDate(2022, 7, 7), GenreID: 1}
		song := &musicdb.Song{ArtistID: 1, Title: "S3"}
		for _, record := range []any{artist, genre, album, song} {
			if err := mdb.Insert(ctx, record); err != nil {
				t.Fatalf("Failed to insert %T: %v", record, err)
			}
		}

		if artist.ID != 3 || genre.ID != 3 || album.ID != 2 || song.ID != 3 {
			t.Errorf("Expected next identifiers 3/3/2/3, got %d/%d/%d/%d", artist.ID, genre.ID, album.ID, song.ID)
		}
	})

	t.Run("export import", func(t *testing.T) {
		mdb := openFresh(t, url)

		exported, err := mdb.Export(ctx)
		if err != nil {
			t.Fatalf("Failed to export: %v", err)
		}
		if err := mdb.DropSchema(ctx); err != nil {
			t.Fatalf("Failed to drop: %v", err)
		}
		if err := mdb.CreateSchema(ctx); err != nil {
			t.Fatalf("Failed to create: %v", err)
		}
		if err := mdb.Import(ctx, exported); err != nil {
			t.Fatalf("Failed to import: %v", err)
		}

		again, err := mdb.Export(ctx)
		if err != nil {
			t.Fatalf("Failed to export again: %v", err)
		}
		if len(again.Ratings) != 2 || again.Ratings[0].Username != "user1" || again.Ratings[0].Score != 5 {
			t.Errorf("Unexpected ratings after round trip: %+v", again.Ratings)
		}
		if again.Songs[0].AlbumID != nil || again.Songs[1].AlbumID == nil {
			t.Errorf("Unexpected song albums after round trip: %+v", again.Songs)
		}
		if !again.Albums[0].ReleaseDate.Equal(exported.Albums[0].ReleaseDate) {
			t.Errorf("Release date changed: %s -> %s", exported.Albums[0].ReleaseDate, again.Albums[0].ReleaseDate)
		}

		// Sequences continue after the imported identifiers
		artist := &musicdb.Artist{Name: "A3"}
		if err := mdb.Insert(ctx, artist); err != nil {
			t.Fatalf("Failed to insert after import: %v", err)
		}
		if artist.ID != 3 {
			t.Errorf("Expected artist id 3 after import, got %d", artist.ID)
		}
	})

	t.Run("clear", func(t *testing.T) {
		mdb := openFresh(t, url)

		if err := mdb.Clear(ctx); err != nil {
			t.Fatalf("Failed to clear: %v", err)
		}
		counts, err := mdb.Counts(ctx)
		if err != nil {
			t.Fatalf("Failed to count rows: %v", err)
		}
		for _, c := range counts {
			if c.Rows != 0 {
				t.Errorf("Expected %s to be empty, got %d rows", c.Table, c.Rows)
			}
		}
	})
}
