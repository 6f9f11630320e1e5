package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/emanuelaromano/book-manager/internal/auth"
	"github.com/emanuelaromano/book-manager/internal/client"
	"github.com/emanuelaromano/book-manager/internal/database"
	"github.com/emanuelaromano/book-manager/internal/database/books"
	"github.com/emanuelaromano/book-manager/internal/database/users"
	"github.com/emanuelaromano/book-manager/internal/http"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// UserStore implementations
var _ auth.UserStore = (*users.Repository)(nil)

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Client
// =============================================================================

// BooksAPI implementations
var _ client.BooksAPI = (*client.Client)(nil)
