package entities

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/emanuelaromano/book-manager/internal/normalize"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_books_natural_key,priority:1" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:512;not null" json:"title"`
	Author    *string   `gorm:"size:256" json:"author"`
	Year      *int      `json:"year"`
	Rating    *int      `json:"rating"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	Synopsis  *string   `gorm:"type:text" json:"synopsis"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	ImageURL  *string   `gorm:"size:2048" json:"imageUrl"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Natural key columns, derived from Title, Author and Year on every save.
	// They are NOT NULL so the unique index treats a missing author or year
	// as equal to another missing one. Case folding can lengthen a string
	// ("ß" folds to "ss"), so the key columns are unbounded text.
	TitleKey  string `gorm:"type:text;not null;uniqueIndex:idx_books_natural_key,priority:2" json:"-"`
	AuthorKey string `gorm:"type:text;not null;default:'';uniqueIndex:idx_books_natural_key,priority:3" json:"-"`
	YearKey   string `gorm:"size:16;not null;default:'';uniqueIndex:idx_books_natural_key,priority:4" json:"-"`
}

// NaturalKey identifies a book within one user's library.
type NaturalKey struct {
	Title  string
	Author string
	Year   string
}

// NaturalKey derives the duplicate-detection key from the current field values.
func (b *Book) NaturalKey() NaturalKey {
	year := ""
	if b.Year != nil {
		year = strconv.Itoa(*b.Year)
	}
	return NaturalKey{
		Title:  normalize.Key(b.Title),
		Author: normalize.OptionalKey(b.Author),
		Year:   year,
	}
}

// BeforeSave keeps the key columns in sync with the visible fields.
func (b *Book) BeforeSave(tx *gorm.DB) error {
	key := b.NaturalKey()
	b.TitleKey = key.Title
	b.AuthorKey = key.Author
	b.YearKey = key.Year
	return nil
}
