// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, dialects, migrations
//	├── books/           # Book CRUD scoped by owner, duplicate detection
//	└── users/           # Account storage
//
// # Dialects
//
// sqlite (mattn/go-sqlite3) is the default and is what tests use. Setting
// DATABASE_URL switches to postgres through lib/pq. Both report duplicate
// keys through IsUniqueViolation so repositories can map them to CONFLICT.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database, logging.NewGormLogger(log))
//	if err := db.Migrate(); err != nil { ... }
//
//	usersRepo := users.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//
//	list, err := booksRepo.List(ctx, userID)
//
// Every book operation takes the acting user's ID; a book owned by someone
// else behaves exactly like a missing one.
package database
