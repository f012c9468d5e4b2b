// Package model declares the seven record types of the music dataset, the
// schema they map to and the Dataset container used for seeding, export and
// import.
package model

import "time"

// Table names as they appear in every engine. They are quoted in DDL and DML
// so that mixed case survives PostgreSQL and "User" is never read as a keyword.
const (
	TableArtist    = "Artist"
	TableGenre     = "Genre"
	TableAlbum     = "Album"
	TableSong      = "Song"
	TableSongGenre = "Song_genre"
	TableUser      = "User"
	TableRating    = "Rating"
)

// Artist is a solo performer or a group.
type Artist struct {
	ID      int64  `gorm:"column:artist_id;primaryKey;autoIncrement" json:"artist_id"`
	Name    string `gorm:"column:name" json:"name"`
	IsGroup bool   `gorm:"column:is_group" json:"is_group"`
}

// TableName implements gorm's schema.Tabler.
func (Artist) TableName() string { return TableArtist }

// Genre is a musical genre. Its identifier range is narrow (SMALLINT).
type Genre struct {
	ID   int16  `gorm:"column:genre_id;primaryKey;autoIncrement" json:"genre_id"`
	Name string `gorm:"column:name" json:"name"`
}

// TableName implements gorm's schema.Tabler.
func (Genre) TableName() string { return TableGenre }

// Album belongs to exactly one artist and one genre. Titles are unique per
// artist.
type Album struct {
	ID          int64  `gorm:"column:album_id;primaryKey;autoIncrement" json:"album_id"`
	ArtistID    int64  `gorm:"column:artist_id" json:"artist_id"`
	Title       string `gorm:"column:title" json:"title"`
	ReleaseDate Date   `gorm:"column:release_date" json:"release_date"`
	GenreID     int16  `gorm:"column:genre_id" json:"genre_id"`
}

// TableName implements gorm's schema.Tabler.
func (Album) TableName() string { return TableAlbum }

// Song belongs to one artist and at most one album. A nil AlbumID means the
// song was never released on an album; SingleReleaseDate is set when it was
// released as a standalone single.
type Song struct {
	ID                int64  `gorm:"column:song_id;primaryKey;autoIncrement" json:"song_id"`
	ArtistID          int64  `gorm:"column:artist_id" json:"artist_id"`
	Title             string `gorm:"column:title" json:"title"`
	AlbumID           *int64 `gorm:"column:album_id" json:"album_id"`
	SingleReleaseDate *Date  `gorm:"column:single_release_date" json:"single_release_date"`
}

// TableName implements gorm's schema.Tabler.
func (Song) TableName() string { return TableSong }

// SongGenre joins songs to genres.
type SongGenre struct {
	SongID  int64 `gorm:"column:song_id;primaryKey;autoIncrement:false" json:"song_id"`
	GenreID int16 `gorm:"column:genre_id;primaryKey;autoIncrement:false" json:"genre_id"`
}

// TableName implements gorm's schema.Tabler.
func (SongGenre) TableName() string { return TableSongGenre }

// User is keyed by username.
type User struct {
	Username  string    `gorm:"column:username;primaryKey" json:"username"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName implements gorm's schema.Tabler.
func (User) TableName() string { return TableUser }

// Rating is a user's score for a song on a given day. The same user may rate
// the same song again only on a different day.
type Rating struct {
	Username   string `gorm:"column:username;primaryKey" json:"username"`
	SongID     int64  `gorm:"column:song_id;primaryKey;autoIncrement:false" json:"song_id"`
	RatingDate Date   `gorm:"column:rating_date;primaryKey" json:"rating_date"`
	Score      int16  `gorm:"column:rating" json:"rating"`
}

// TableName implements gorm's schema.Tabler.
func (Rating) TableName() string { return TableRating }
