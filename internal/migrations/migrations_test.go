package migrations

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/musicdb/internal/db"
	"github.com/tordrt/musicdb/internal/model"
)

var dialects = []db.Dialect{db.SQLite, db.Postgres, db.MySQL}

var createTable = regexp.MustCompile("(?i)^(?:--[^\n]*\n|\\s)*CREATE TABLE [\"`]?(\\w+)[\"`]?")
var dropTable = regexp.MustCompile("(?i)^DROP TABLE IF EXISTS [\"`]?(\\w+)[\"`]?$")

func TestUpCreatesTablesInDependencyOrder(t *testing.T) {
	want, err := model.Schema().CreationOrder()
	require.NoError(t, err)

	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			statements, err := Statements(dialect, SchemaVersion, Up)
			require.NoError(t, err)
			require.Len(t, statements, len(want))

			var got []string
			for _, stmt := range statements {
				m := createTable.FindStringSubmatch(stmt)
				require.NotNil(t, m, stmt)
				got = append(got, m[1])
				assert.False(t, strings.HasSuffix(stmt, ";"))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDownDropsTablesInReverseOrder(t *testing.T) {
	want, err := model.Schema().DeletionOrder()
	require.NoError(t, err)

	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			statements, err := Statements(dialect, SchemaVersion, Down)
			require.NoError(t, err)

			var got []string
			for _, stmt := range statements {
				m := dropTable.FindStringSubmatch(stmt)
				require.NotNil(t, m, stmt)
				got = append(got, m[1])
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestScriptsDeclareConstraints(t *testing.T) {
	for _, dialect := range dialects {
		t.Run(string(dialect), func(t *testing.T) {
			script, err := Script(dialect, SchemaVersion, Up)
			require.NoError(t, err)

			assert.Contains(t, script, "uq_album_artist_title")
			assert.Contains(t, script, "uq_song_artist_title")
			assert.Contains(t, script, "PRIMARY KEY (song_id, genre_id)")
			assert.Contains(t, script, "PRIMARY KEY (username, song_id, rating_date)")
		})
	}
}

func TestUnknownDialect(t *testing.T) {
	_, err := Dir(db.Dialect("oracle"))
	assert.Error(t, err)

	_, err = Statements(db.Dialect("oracle"), SchemaVersion, Up)
	assert.Error(t, err)

	_, err = Script(db.SQLite, 99, Up)
	assert.Error(t, err)
}

func TestCommentOnly(t *testing.T) {
	assert.True(t, commentOnly("-- one\n  -- two\n"))
	assert.False(t, commentOnly("-- header\nCREATE TABLE x (id INT)"))
}
