// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - UserStore: Account lookup and creation (internal/auth/service.go)
//   - BookStore: Per-user book CRUD (internal/http/stores.go)
//   - Pinger: Database reachability for the health check (internal/http/stores.go)
//
// ## Client Interfaces
//
//   - BooksAPI: The server calls the optimistic cache makes (internal/client/cache.go)
//
// # Adding a Book Field
//
//  1. Add the column to entities.Book and, if it can be cleared, a
//     nullable.Field to books.Patch
//
//  2. Mirror it in client.Book, client.BookInput and client.BookPatch
//
//  3. If it should be searchable, add it to client.FilterBooks
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/shelves/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods, scoping every query by user ID
//
//  4. Add compile-time check:
//
//     var _ ShelfStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
