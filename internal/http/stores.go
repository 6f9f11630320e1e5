package http

import (
	"context"

	"github.com/emanuelaromano/book-manager/internal/database/books"
	"github.com/emanuelaromano/book-manager/internal/entities"
)

// BookStore is the library storage used by BooksController. Every method
// is scoped to the acting user.
type BookStore interface {
	List(ctx context.Context, userID uint) ([]entities.Book, error)
	Get(ctx context.Context, userID, id uint) (*entities.Book, error)
	Create(ctx context.Context, userID uint, in books.Input) (*entities.Book, error)
	Update(ctx context.Context, userID, id uint, patch books.Patch) (*entities.Book, error)
	Delete(ctx context.Context, userID, id uint) error
}

// Pinger checks database connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
