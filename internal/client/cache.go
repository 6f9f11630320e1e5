package client

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "books"

// BooksAPI is the part of the server API the cache needs. *Client
// implements it.
type BooksAPI interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CreateBook(ctx context.Context, in BookInput) (*Book, error)
	UpdateBook(ctx context.Context, id int64, patch BookPatch) (*Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// BookCache holds the signed-in user's books and applies mutations
// optimistically: the local list changes as soon as a mutation is issued,
// is restored if the server rejects it, and is refreshed from the server
// once the call settles either way.
//
// Each mutation restores the snapshot it captured itself; there is no lock
// across mutations, so overlapping mutations can briefly show a stale list
// until the following refresh.
type BookCache struct {
	api     BooksAPI
	onError func(error)
	now     func() time.Time

	mu    sync.RWMutex
	books []Book

	lastTempID atomic.Int64
	refresh    singleflight.Group
}

// CacheOption configures a BookCache.
type CacheOption func(*BookCache)

// WithErrorHandler registers fn to be called with every failed mutation or
// refresh that follows a mutation. fn runs on the mutation's goroutine.
func WithErrorHandler(fn func(error)) CacheOption {
	return func(c *BookCache) {
		c.onError = fn
	}
}

func NewBookCache(api BooksAPI, opts ...CacheOption) *BookCache {
	c := &BookCache{
		api:   api,
		now:   time.Now,
		books: []Book{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Books returns a copy of the cached list.
func (c *BookCache) Books() []Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.books)
}

// Refresh replaces the cached list with the server's. Concurrent calls
// share one request.
func (c *BookCache) Refresh(ctx context.Context) error {
	_, err, _ := c.refresh.Do(refreshKey, func() (any, error) {
		books, err := c.api.ListBooks(ctx)
		if err != nil {
			return nil, err
		}
		c.replace(books)
		return nil, nil
	})
	return err
}

// Create prepends a provisional book and sends it to the server.
func (c *BookCache) Create(ctx context.Context, in BookInput) *Mutation {
	provisional := in.provisional(c.nextTempID(), c.now())
	return c.mutate(ctx,
		func(books []Book) []Book {
			return append([]Book{provisional}, books...)
		},
		func(ctx context.Context) (*Book, error) {
			return c.api.CreateBook(ctx, in)
		},
	)
}

// Update merges patch into the cached book and sends it to the server.
func (c *BookCache) Update(ctx context.Context, id int64, patch BookPatch) *Mutation {
	return c.mutate(ctx,
		func(books []Book) []Book {
			i := indexOf(books, id)
			if i < 0 {
				return books
			}
			next := slices.Clone(books)
			patch.applyTo(&next[i])
			return next
		},
		func(ctx context.Context) (*Book, error) {
			return c.api.UpdateBook(ctx, id, patch)
		},
	)
}

// Delete removes the cached book and deletes it on the server.
func (c *BookCache) Delete(ctx context.Context, id int64) *Mutation {
	return c.mutate(ctx,
		func(books []Book) []Book {
			i := indexOf(books, id)
			if i < 0 {
				return books
			}
			return slices.Delete(slices.Clone(books), i, i+1)
		},
		func(ctx context.Context) (*Book, error) {
			return nil, c.api.DeleteBook(ctx, id)
		},
	)
}

// mutate applies the optimistic change synchronously, then runs call in the
// background. The cached slice is never modified in place, so the snapshot
// stays valid without copying.
func (c *BookCache) mutate(ctx context.Context, apply func([]Book) []Book, call func(context.Context) (*Book, error)) *Mutation {
	m := &Mutation{done: make(chan struct{})}

	c.mu.Lock()
	snapshot := c.books
	c.books = apply(snapshot)
	c.mu.Unlock()

	go func() {
		defer close(m.done)

		m.book, m.err = call(ctx)
		if m.err != nil {
			c.replace(snapshot)
			c.report(m.err)
		}

		// Reconcile with the server even when the caller has gone away. A
		// refresh already in flight may predate the write, so start a new one.
		c.refresh.Forget(refreshKey)
		if err := c.Refresh(context.WithoutCancel(ctx)); err != nil {
			c.report(err)
		}
	}()

	return m
}

func (c *BookCache) replace(books []Book) {
	c.mu.Lock()
	c.books = books
	c.mu.Unlock()
}

func (c *BookCache) report(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *BookCache) nextTempID() int64 {
	return c.lastTempID.Add(-1)
}

func indexOf(books []Book, id int64) int {
	return slices.IndexFunc(books, func(b Book) bool { return b.ID == id })
}

// Mutation is an optimistic change whose server call is in flight.
type Mutation struct {
	done chan struct{}
	book *Book
	err  error
}

// Done is closed once the server call and the follow-up refresh finish.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles and returns the server's book
// (nil for deletes) or its error. If ctx ends first, Wait returns ctx.Err()
// and the mutation keeps running.
func (m *Mutation) Wait(ctx context.Context) (*Book, error) {
	select {
	case <-m.done:
		return m.book, m.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
