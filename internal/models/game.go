package models

import "time"

// Game is an external game listed in the catalog
type Game struct {
	ID           string
	Title        string
	Description  *string
	ThumbnailURL *string
	VideoURL     *string
	GameLink     string
	SortOrder    int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GameUpdate carries the fields of a partial game update; nil means unchanged
type GameUpdate struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	VideoURL     *string
	GameLink     *string
	SortOrder    *int
	IsActive     *bool
}
