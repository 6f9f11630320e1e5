package client

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/emanuelaromano/book-manager/internal/normalize"
)

// SortColumn names a sortable book field.
type SortColumn string

const (
	SortByTitle     SortColumn = "title"
	SortByAuthor    SortColumn = "author"
	SortByYear      SortColumn = "year"
	SortByRating    SortColumn = "rating"
	SortByIsRead    SortColumn = "isRead"
	SortByCreatedAt SortColumn = "createdAt"
)

// SortColumns lists the valid columns in display order.
var SortColumns = []SortColumn{SortByTitle, SortByAuthor, SortByYear, SortByRating, SortByIsRead, SortByCreatedAt}

type SortDirection int

const (
	Unsorted SortDirection = iota
	Ascending
	Descending
)

// SortState is the current column sort. The zero value is unsorted.
type SortState struct {
	Column    SortColumn
	Direction SortDirection
}

// Toggle returns the state after clicking column: a new column starts
// ascending, and the same column cycles ascending, descending, unsorted.
func (s SortState) Toggle(column SortColumn) SortState {
	if s.Column != column || s.Direction == Unsorted {
		return SortState{Column: column, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Column: column, Direction: Descending}
	}
	return SortState{}
}

// SortBooks returns a sorted copy of books. Missing values go last when
// ascending and first when descending; ties keep their input order.
func SortBooks(books []Book, s SortState) []Book {
	out := slices.Clone(books)
	if s.Direction == Unsorted || s.Column == "" {
		return out
	}

	slices.SortStableFunc(out, func(a, b Book) int {
		c := compareBy(s.Column, a, b)
		if s.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

func compareBy(column SortColumn, a, b Book) int {
	switch column {
	case SortByTitle:
		return normalize.Compare(a.Title, b.Title)
	case SortByAuthor:
		return compareNullable(a.Author, b.Author, normalize.Compare)
	case SortByYear:
		return compareNullable(a.Year, b.Year, cmp.Compare[int])
	case SortByRating:
		return compareNullable(a.Rating, b.Rating, cmp.Compare[int])
	case SortByIsRead:
		return compareBool(a.IsRead, b.IsRead)
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return 0
	}
}

// compareNullable orders nil after every value.
func compareNullable[T any](a, b *T, compare func(T, T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return compare(*a, *b)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// ReadFilter restricts a list by read status.
type ReadFilter int

const (
	AllBooks ReadFilter = iota
	ReadBooks
	UnreadBooks
)

// FilterBooks returns the books matching query and read. The query is
// trimmed, then matched as a case-insensitive substring of the title,
// author, notes, year or rating; a blank query matches everything.
func FilterBooks(books []Book, query string, read ReadFilter) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if read == ReadBooks && !b.IsRead || read == UnreadBooks && b.IsRead {
			continue
		}
		if matches(b, query) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b Book, query string) bool {
	if normalize.Key(query) == "" {
		return true
	}
	fields := []string{b.Title}
	if b.Author != nil {
		fields = append(fields, *b.Author)
	}
	if b.Notes != nil {
		fields = append(fields, *b.Notes)
	}
	if b.Year != nil {
		fields = append(fields, strconv.Itoa(*b.Year))
	}
	if b.Rating != nil {
		fields = append(fields, strconv.Itoa(*b.Rating))
	}
	return slices.ContainsFunc(fields, func(f string) bool {
		return normalize.Contains(f, query)
	})
}
