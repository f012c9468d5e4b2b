// Package seed holds the versioned initialization dataset loaded right after
// the schema is created.
package seed

import (
	"time"

	"github.com/tordrt/musicdb/internal/model"
)

// Version identifies the fixture below. Bump it whenever a row changes.
const Version = 1

// Dataset returns a fresh copy of the seed rows. Identifiers are explicit so
// that loading the fixture always yields the same keys; the store positions
// each sequence one past the highest seeded value afterwards.
func Dataset() *model.Dataset {
	albumOne := int64(1)
	singleDate := model.NewDate(2008, time.October, 1)

	return &model.Dataset{
		Artists: []model.Artist{
			{ID: 1, Name: "A1", IsGroup: false},
			{ID: 2, Name: "A2", IsGroup: true},
		},
		Genres: []model.Genre{
			{ID: 1, Name: "Pop"},
			{ID: 2, Name: "Rock"},
		},
		Albums: []model.Album{
			{ID: 1, ArtistID: 2, Title: "Album1", ReleaseDate: model.NewDate(2019, time.March, 15), GenreID: 2},
		},
		Songs: []model.Song{
			{ID: 1, ArtistID: 1, Title: "S1", SingleReleaseDate: &singleDate},
			{ID: 2, ArtistID: 2, Title: "S2", AlbumID: &albumOne},
		},
		SongGenres: []model.SongGenre{
			{SongID: 1, GenreID: 1},
			{SongID: 2, GenreID: 2},
		},
		Users: []model.User{
			{Username: "user1", CreatedAt: time.Date(2021, time.January, 10, 9, 0, 0, 0, time.UTC)},
			{Username: "user2", CreatedAt: time.Date(2021, time.February, 20, 18, 30, 0, 0, time.UTC)},
		},
		Ratings: []model.Rating{
			{Username: "user1", SongID: 1, RatingDate: model.NewDate(2021, time.May, 1), Score: 5},
			{Username: "user2", SongID: 2, RatingDate: model.NewDate(2021, time.June, 12), Score: 4},
		},
	}
}
