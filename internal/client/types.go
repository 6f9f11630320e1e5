package client

import (
	"time"

	"github.com/emanuelaromano/book-manager/internal/nullable"
)

// User is the account returned by the auth endpoints.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Book mirrors the server's book JSON. Provisional entries created by
// BookCache carry a negative ID until the next refresh.
type Book struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Author    *string   `json:"author"`
	Year      *int      `json:"year"`
	Rating    *int      `json:"rating"`
	Notes     *string   `json:"notes"`
	Synopsis  *string   `json:"synopsis"`
	IsRead    bool      `json:"isRead"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Provisional reports whether the book has not been confirmed by the server yet.
func (b Book) Provisional() bool {
	return b.ID < 0
}

// BookInput is the body of POST /api/books.
type BookInput struct {
	Title    string  `json:"title"`
	Author   *string `json:"author,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Rating   *int    `json:"rating,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Synopsis *string `json:"synopsis,omitempty"`
	IsRead   *bool   `json:"isRead,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func (in BookInput) provisional(id int64, now time.Time) Book {
	return Book{
		ID:        id,
		Title:     in.Title,
		Author:    in.Author,
		Year:      in.Year,
		Rating:    in.Rating,
		Notes:     in.Notes,
		Synopsis:  in.Synopsis,
		IsRead:    in.IsRead != nil && *in.IsRead,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BookPatch is the body of PUT /api/books/:id. Unset fields are omitted from
// the request; null fields clear the stored value.
type BookPatch struct {
	Title    nullable.Field[string] `json:"title,omitzero"`
	Author   nullable.Field[string] `json:"author,omitzero"`
	Year     nullable.Field[int]    `json:"year,omitzero"`
	Rating   nullable.Field[int]    `json:"rating,omitzero"`
	Notes    nullable.Field[string] `json:"notes,omitzero"`
	Synopsis nullable.Field[string] `json:"synopsis,omitzero"`
	IsRead   nullable.Field[bool]   `json:"isRead,omitzero"`
	ImageURL nullable.Field[string] `json:"imageUrl,omitzero"`
}

// applyTo merges the patch into b the way the server will.
func (p BookPatch) applyTo(b *Book) {
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
