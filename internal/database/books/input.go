package books

import (
	"strings"

	"github.com/emanuelaromano/book-manager/internal/entities"
	"github.com/emanuelaromano/book-manager/internal/nullable"
)

// Input is the payload for creating a book.
type Input struct {
	Title    string  `json:"title"`
	Author   *string `json:"author"`
	Year     *int    `json:"year"`
	Rating   *int    `json:"rating"`
	Notes    *string `json:"notes"`
	Synopsis *string `json:"synopsis"`
	IsRead   *bool   `json:"isRead"`
	ImageURL *string `json:"imageUrl"`
}

func (in Input) toBook(userID uint) *entities.Book {
	return &entities.Book{
		UserID:   userID,
		Title:    in.Title,
		Author:   in.Author,
		Year:     in.Year,
		Rating:   in.Rating,
		Notes:    in.Notes,
		Synopsis: in.Synopsis,
		IsRead:   in.IsRead != nil && *in.IsRead,
		ImageURL: in.ImageURL,
	}
}

// Patch is a partial update. Omitted fields keep their value, null clears
// them and a value replaces them. A null isRead resets it to false.
type Patch struct {
	Title    nullable.Field[string] `json:"title,omitzero"`
	Author   nullable.Field[string] `json:"author,omitzero"`
	Year     nullable.Field[int]    `json:"year,omitzero"`
	Rating   nullable.Field[int]    `json:"rating,omitzero"`
	Notes    nullable.Field[string] `json:"notes,omitzero"`
	Synopsis nullable.Field[string] `json:"synopsis,omitzero"`
	IsRead   nullable.Field[bool]   `json:"isRead,omitzero"`
	ImageURL nullable.Field[string] `json:"imageUrl,omitzero"`
}

// clearsTitle reports whether the patch tries to blank out the title.
func (p Patch) clearsTitle() bool {
	return p.Title.Set && (p.Title.Null || strings.TrimSpace(p.Title.Value) == "")
}

func (p Patch) applyTo(b *entities.Book) {
	if p.Title.HasValue() {
		b.Title = p.Title.Value
	}
	p.Author.Apply(&b.Author)
	p.Year.Apply(&b.Year)
	p.Rating.Apply(&b.Rating)
	p.Notes.Apply(&b.Notes)
	p.Synopsis.Apply(&b.Synopsis)
	p.ImageURL.Apply(&b.ImageURL)
	if p.IsRead.Set {
		b.IsRead = p.IsRead.HasValue() && p.IsRead.Value
	}
}

// checked holds the fields validated before every write.
// Lengths match the column sizes on entities.Book and count characters.
type checked struct {
	Title  string  `json:"title" validate:"required,max=512"`
	Author *string `json:"author" validate:"omitempty,max=256"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// tidy trims the title and author; a blank author becomes null.
func tidy(b *entities.Book) {
	b.Title = strings.TrimSpace(b.Title)
	if b.Author != nil {
		author := strings.TrimSpace(*b.Author)
		if author == "" {
			b.Author = nil
		} else {
			b.Author = &author
		}
	}
}
