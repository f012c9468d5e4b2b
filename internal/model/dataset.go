package model

import "fmt"

// Dataset holds every row of every table. It is what the seed fixture
// declares and what export and import move between stores.
type Dataset struct {
	Artists    []Artist    `json:"artists"`
	Genres     []Genre     `json:"genres"`
	Albums     []Album     `json:"albums"`
	Songs      []Song      `json:"songs"`
	SongGenres []SongGenre `json:"song_genres"`
	Users      []User      `json:"users"`
	Ratings    []Rating    `json:"ratings"`
}

// Rows returns a pointer to the slice holding the rows of the named table,
// suitable as a scan destination.
func (d *Dataset) Rows(table string) (any, error) {
	switch table {
	case TableArtist:
		return &d.Artists, nil
	case TableGenre:
		return &d.Genres, nil
	case TableAlbum:
		return &d.Albums, nil
	case TableSong:
		return &d.Songs, nil
	case TableSongGenre:
		return &d.SongGenres, nil
	case TableUser:
		return &d.Users, nil
	case TableRating:
		return &d.Ratings, nil
	default:
		return nil, fmt.Errorf("unknown table %s", table)
	}
}

// Each calls fn with a pointer to every row of the named table, in slice
// order, stopping at the first error.
func (d *Dataset) Each(table string, fn func(record any) error) error {
	switch table {
	case TableArtist:
		return each(d.Artists, fn)
	case TableGenre:
		return each(d.Genres, fn)
	case TableAlbum:
		return each(d.Albums, fn)
	case TableSong:
		return each(d.Songs, fn)
	case TableSongGenre:
		return each(d.SongGenres, fn)
	case TableUser:
		return each(d.Users, fn)
	case TableRating:
		return each(d.Ratings, fn)
	default:
		return fmt.Errorf("unknown table %s", table)
	}
}

// Count returns the number of rows held for the named table.
func (d *Dataset) Count(table string) int {
	switch table {
	case TableArtist:
		return len(d.Artists)
	case TableGenre:
		return len(d.Genres)
	case TableAlbum:
		return len(d.Albums)
	case TableSong:
		return len(d.Songs)
	case TableSongGenre:
		return len(d.SongGenres)
	case TableUser:
		return len(d.Users)
	case TableRating:
		return len(d.Ratings)
	default:
		return 0
	}
}

func each[T any](rows []T, fn func(record any) error) error {
	for i := range rows {
		if err := fn(&rows[i]); err != nil {
			return err
		}
	}
	return nil
}
