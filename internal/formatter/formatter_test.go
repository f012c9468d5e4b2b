package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/musicdb/internal/schema"
)

func testSchema() *schema.Schema {
	def := "CURRENT_TIMESTAMP"
	return &schema.Schema{Tables: []schema.Table{
		{
			Name:       "Artist",
			PrimaryKey: []string{"artist_id"},
			Columns: []schema.Column{
				{Name: "artist_id", Type: "integer", AutoIncrement: true},
				{Name: "name", Type: "varchar(100)", IsUnique: true},
			},
		},
		{
			Name:       "User",
			PrimaryKey: []string{"username"},
			Columns: []schema.Column{
				{Name: "username", Type: "varchar(50)"},
				{Name: "created_at", Type: "timestamp", DefaultValue: &def},
			},
		},
		{
			Name:       "Song",
			PrimaryKey: []string{"song_id"},
			Columns: []schema.Column{
				{Name: "song_id", Type: "integer", AutoIncrement: true},
				{Name: "artist_id", Type: "integer"},
				{Name: "title", Type: "varchar(100)"},
				{Name: "album_id", Type: "integer", Nullable: true},
			},
			Relations: []schema.Relation{
				{SourceColumn: "artist_id", TargetTable: "Artist", TargetColumn: "artist_id", Cardinality: "N:1"},
			},
			Indexes: []schema.Index{
				{Name: "uq_song_artist_title", Columns: []string{"artist_id", "title"}, IsUnique: true},
			},
		},
	}}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    any
		wantErr bool
	}{
		{format: "", want: &TextFormatter{}},
		{format: "text", want: &TextFormatter{}},
		{format: "markdown", want: &MarkdownFormatter{}},
		{format: "md", want: &MarkdownFormatter{}},
		{format: "html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := New(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(testSchema()))
	out := buf.String()

	assert.Contains(t, out, "TABLE Artist (PK: artist_id)\n")
	assert.Contains(t, out, "  artist_id: integer AUTO NOT NULL\n")
	assert.Contains(t, out, "  name: varchar(100) UNIQUE NOT NULL\n")
	assert.Contains(t, out, "  created_at: timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP\n")
	assert.Contains(t, out, "  album_id: integer\n")
	assert.Contains(t, out, "    artist_id → Artist.artist_id (N:1)\n")
	assert.Contains(t, out, "    uq_song_artist_title (artist_id, title) UNIQUE\n")
	assert.Contains(t, out, "  REFERENCED BY:\n    Song.artist_id → artist_id\n")

	// Tables keep the order they were given in
	assert.Less(t, strings.Index(out, "TABLE User"), strings.Index(out, "TABLE Song"))
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(testSchema()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Music Schema\n\n"))
	assert.Contains(t, out, "## Song\n")
	assert.Contains(t, out, "- **artist_id:** integer, PK, auto-assigned, NOT NULL\n")
	assert.Contains(t, out, "- **album_id:** integer\n")
	assert.Contains(t, out, "- artist_id → Artist.artist_id (N:1)\n")
	assert.Contains(t, out, "- uq_song_artist_title on (artist_id, title), unique\n")
	assert.Contains(t, out, "### Referenced by\n\n- Song.artist_id → artist_id\n")
}

func TestMultiFileFormatter(t *testing.T) {
	for _, format := range []string{FormatText, FormatMarkdown} {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			f := NewMultiFileFormatter(dir, format)
			require.NoError(t, f.Format(testSchema()))

			ext := f.fileExtension()
			for _, name := range []string{"_overview", "Artist", "User", "Song"} {
				assert.FileExists(t, filepath.Join(dir, name+ext))
			}

			overview, err := os.ReadFile(filepath.Join(dir, "_overview"+ext))
			require.NoError(t, err)
			assert.Contains(t, string(overview), "(references: Artist)")

			song, err := os.ReadFile(filepath.Join(dir, "Song"+ext))
			require.NoError(t, err)
			assert.Contains(t, string(song), "uq_song_artist_title")
		})
	}
}

func TestMultiFileFormatterMarkdownAlias(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewMultiFileFormatter(dir, "md").Format(testSchema()))
	assert.FileExists(t, filepath.Join(dir, "_overview.md"))
	assert.FileExists(t, filepath.Join(dir, "Artist.md"))
}

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{"": FormatText, "text": FormatText, "markdown": FormatMarkdown, "md": FormatMarkdown} {
		got, err := Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := Normalize("html")
	assert.Error(t, err)
}

func TestMultiFileFormatterRejectsUnknownFormat(t *testing.T) {
	err := NewMultiFileFormatter(t.TempDir(), "html").Format(testSchema())
	assert.Error(t, err)
}
