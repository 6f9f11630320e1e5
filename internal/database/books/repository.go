// Package books provides database operations for a user's library.
//
// Every method takes the acting user's ID. A book that exists but belongs to
// someone else is reported exactly like a missing one.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Create(ctx, userID, books.Input{Title: "Dune"})
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emanuelaromano/book-manager/internal/database"
	"github.com/emanuelaromano/book-manager/internal/entities"
	domainerrors "github.com/emanuelaromano/book-manager/internal/errors"
	"github.com/emanuelaromano/book-manager/internal/validation"
)

var (
	ErrNotFound   = domainerrors.NotFound("Not found")
	ErrEmptyTitle = domainerrors.Validation("Title cannot be empty")
	ErrDuplicate  = domainerrors.Conflict("Book already exists in your library")
)

// Repository handles all book database operations.
type Repository struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, validator: validation.New()}
}

// List returns the user's books, newest first.
func (r *Repository) List(ctx context.Context, userID uint) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&books).Error
	if err != nil {
		return nil, domainerrors.Internal("failed to list books", err)
	}
	return books, nil
}

// Get returns one of the user's books.
func (r *Repository) Get(ctx context.Context, userID, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := findOwned(r.db.WithContext(ctx), userID, id, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Create adds a book to the user's library.
func (r *Repository) Create(ctx context.Context, userID uint, in Input) (*entities.Book, error) {
	book := in.toBook(userID)
	if err := r.prepare(book); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, book); err != nil {
			return err
		}
		return tx.Create(book).Error
	})
	if err != nil {
		return nil, translateWrite(err, "failed to create book")
	}
	return book, nil
}

// Update applies a partial update to one of the user's books.
func (r *Repository) Update(ctx context.Context, userID, id uint, patch Patch) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwned(tx, userID, id, &book); err != nil {
			return err
		}
		if patch.clearsTitle() {
			return ErrEmptyTitle
		}

		patch.applyTo(&book)
		if err := r.prepare(&book); err != nil {
			return err
		}
		if err := ensureUnique(tx, &book); err != nil {
			return err
		}
		return tx.Save(&book).Error
	})
	if err != nil {
		return nil, translateWrite(err, "failed to update book")
	}
	return &book, nil
}

// Delete removes one of the user's books.
func (r *Repository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Book{})
	if result.Error != nil {
		return domainerrors.Internal("failed to delete book", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) prepare(book *entities.Book) error {
	tidy(book)
	return r.validator.Validate(checked{Title: book.Title, Author: book.Author, Rating: book.Rating})
}

func findOwned(tx *gorm.DB, userID, id uint, book *entities.Book) error {
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return domainerrors.Internal("failed to load book", err)
	}
	return nil
}

// ensureUnique fails with ErrDuplicate when another of the owner's books has
// the same natural key. The unique index still backs this up for races.
func ensureUnique(tx *gorm.DB, book *entities.Book) error {
	key := book.NaturalKey()
	q := tx.Model(&entities.Book{}).
		Where("user_id = ? AND title_key = ? AND author_key = ? AND year_key = ?",
			book.UserID, key.Title, key.Author, key.Year)
	if book.ID != 0 {
		q = q.Where("id <> ?", book.ID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return nil
}

func translateWrite(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return domainerrors.Wrap(err, msg)
}
