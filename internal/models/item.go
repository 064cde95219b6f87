package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/jspicer/mediahub/internal/shared"
)

// Item represents a titled entry in one of the four collection sections.
//
// Movies may carry a resolved catalog id and media kind; songs may carry a
// catalog track id and artwork URL. Bookmarks and books only have a title and
// link. Items are never updated in place, only created and deleted.
type Item struct {
	id       string
	sequence int
	userID   string
	category Category
	title    string
	link     string

	// movies
	catalogID string
	mediaKind string

	// songs
	catalogTrackID string
	artworkURL     string

	createdAt time.Time
}

// NewItem creates an Item owned by userID in the given category.
func NewItem(category Category, userID, title, link string) *Item {
	return &Item{
		category:  category,
		userID:    userID,
		title:     title,
		link:      link,
		createdAt: time.Now(),
	}
}

func (i *Item) ID() string             { return i.id }
func (i *Item) Sequence() int          { return i.sequence }
func (i *Item) UserID() string         { return i.userID }
func (i *Item) Category() Category     { return i.category }
func (i *Item) Title() string          { return i.title }
func (i *Item) Link() string           { return i.link }
func (i *Item) CatalogID() string      { return i.catalogID }
func (i *Item) MediaKind() string      { return i.mediaKind }
func (i *Item) CatalogTrackID() string { return i.catalogTrackID }
func (i *Item) ArtworkURL() string     { return i.artworkURL }
func (i *Item) CreatedAt() time.Time   { return i.createdAt }

func (i *Item) SetID(id string)            { i.id = id }
func (i *Item) SetSequence(n int)          { i.sequence = n }
func (i *Item) SetTitle(title string)      { i.title = title }
func (i *Item) SetLink(link string)        { i.link = link }
func (i *Item) SetCreatedAt(t time.Time)   { i.createdAt = t }
func (i *Item) SetCatalogID(id string)     { i.catalogID = id }
func (i *Item) SetMediaKind(kind string)   { i.mediaKind = kind }
func (i *Item) SetCatalogTrackID(id string) { i.catalogTrackID = id }
func (i *Item) SetArtworkURL(u string)     { i.artworkURL = u }

// HasCatalogRef reports whether the item carries a resolved external
// identifier usable as a recommendation seed. Books are always eligible by
// title alone; bookmarks never are.
func (i *Item) HasCatalogRef() bool {
	switch i.category {
	case CategoryMovies:
		return i.catalogID != ""
	case CategorySongs:
		return i.catalogTrackID != ""
	case CategoryBooks:
		return i.title != ""
	}
	return false
}

// Validate checks ownership, category, and title.
func (i *Item) Validate() error {
	if !i.category.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidCategory, i.category)
	}
	if i.userID == "" {
		return fmt.Errorf("%w: owner is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(i.title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	return nil
}
