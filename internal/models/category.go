package models

import (
	"fmt"

	"github.com/jspicer/mediahub/internal/shared"
)

// Category identifies one of the four fixed collection sections.
type Category string

const (
	CategoryMovies    Category = "movies"
	CategorySongs     Category = "songs"
	CategoryBookmarks Category = "bookmarks"
	CategoryBooks     Category = "books"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryMovies, CategorySongs, CategoryBookmarks, CategoryBooks}
}

// ParseCategory validates a raw section value from a request path or body.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMovies, CategorySongs, CategoryBookmarks, CategoryBooks:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrInvalidCategory, s)
}

// Valid reports whether the category is one of the four fixed values.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

func (c Category) String() string {
	return string(c)
}
