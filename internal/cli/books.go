package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/emanuelaromano/book-manager/internal/client"
	"github.com/emanuelaromano/book-manager/internal/nullable"
)

const (
	defaultServer  = "http://localhost:4000"
	commandTimeout = 30 * time.Second
)

// BooksCommand signs in to a running server and manages the user's library
// through the optimistic book cache.
type BooksCommand struct {
	Server   string
	Email    string
	Password string

	Action string
	ID     int64

	// list
	Sort  string
	Desc  bool
	Query string
	Read  string

	// add
	Input client.BookInput

	out io.Writer
}

func NewBooksCommand() *BooksCommand {
	return &BooksCommand{out: os.Stdout}
}

func (cmd *BooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("books", flag.ExitOnError)

	fs.StringVar(&cmd.Server, "server", envOr("BOOKS_SERVER", defaultServer), "Server base URL (env BOOKS_SERVER)")
	fs.StringVar(&cmd.Email, "email", os.Getenv("BOOKS_EMAIL"), "Account email (env BOOKS_EMAIL)")
	fs.StringVar(&cmd.Password, "password", os.Getenv("BOOKS_PASSWORD"), "Account password (env BOOKS_PASSWORD)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s books [options] <list|add|rm|read|unread> [args]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage your library on a running server.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nActions:\n")
		fmt.Fprintf(os.Stderr, "  list [-sort column] [-desc] [-q text] [-read all|read|unread]\n")
		fmt.Fprintf(os.Stderr, "  add -title T [-author A] [-year Y] [-rating R] [-notes N] [-read]\n")
		fmt.Fprintf(os.Stderr, "  rm <id>\n")
		fmt.Fprintf(os.Stderr, "  read <id> | unread <id>\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s books -email me@example.com list -sort year -desc\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s books add -title Dune -author \"Frank Herbert\" -year 1965\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	rest := fs.Args()
	cmd.Action = "list"
	if len(rest) > 0 {
		cmd.Action, rest = rest[0], rest[1:]
	}

	switch cmd.Action {
	case "list":
		return cmd.parseList(rest)
	case "add":
		return cmd.parseAdd(rest)
	case "rm", "read", "unread":
		return cmd.parseID(rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}
}

func (cmd *BooksCommand) parseList(args []string) error {
	fs := flag.NewFlagSet("books list", flag.ExitOnError)
	fs.StringVar(&cmd.Sort, "sort", "", "Sort column: title, author, year, rating, isRead, createdAt")
	fs.BoolVar(&cmd.Desc, "desc", false, "Sort descending")
	fs.StringVar(&cmd.Query, "q", "", "Only show books matching this text")
	fs.StringVar(&cmd.Read, "read", "all", "Read status: all, read or unread")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Sort != "" && !slices.Contains(client.SortColumns, client.SortColumn(cmd.Sort)) {
		return fmt.Errorf("unknown sort column: %s", cmd.Sort)
	}
	if _, err := readFilter(cmd.Read); err != nil {
		return err
	}
	return nil
}

func (cmd *BooksCommand) parseAdd(args []string) error {
	fs := flag.NewFlagSet("books add", flag.ExitOnError)
	title := fs.String("title", "", "Book title (required)")
	author := fs.String("author", "", "Author")
	year := fs.Int("year", 0, "Publication year")
	rating := fs.Int("rating", 0, "Rating from 1 to 5")
	notes := fs.String("notes", "", "Notes")
	isRead := fs.Bool("read", false, "Mark as read")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*title) == "" {
		return fmt.Errorf("title is required")
	}

	cmd.Input = client.BookInput{Title: *title}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "author":
			cmd.Input.Author = author
		case "year":
			cmd.Input.Year = year
		case "rating":
			cmd.Input.Rating = rating
		case "notes":
			cmd.Input.Notes = notes
		case "read":
			cmd.Input.IsRead = isRead
		}
	})
	return nil
}

func (cmd *BooksCommand) parseID(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs exactly one book id", cmd.Action)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid book id: %s", args[0])
	}
	cmd.ID = id
	return nil
}

func (cmd *BooksCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	api, err := client.New(cmd.Server)
	if err != nil {
		return err
	}
	if _, err := api.Login(ctx, cmd.Email, cmd.Password); err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	cache := client.NewBookCache(api)
	if err := cache.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	switch cmd.Action {
	case "add":
		book, err := cache.Create(ctx, cmd.Input).Wait(ctx)
		if err != nil {
			return fmt.Errorf("failed to add book: %w", err)
		}
		fmt.Fprintf(cmd.out, "Added %q (id %d)\n", book.Title, book.ID)
	case "rm":
		if _, err := cache.Delete(ctx, cmd.ID).Wait(ctx); err != nil {
			return fmt.Errorf("failed to delete book %d: %w", cmd.ID, err)
		}
		fmt.Fprintf(cmd.out, "Deleted book %d\n", cmd.ID)
	case "read", "unread":
		patch := client.BookPatch{IsRead: nullable.Value(cmd.Action == "read")}
		book, err := cache.Update(ctx, cmd.ID, patch).Wait(ctx)
		if err != nil {
			return fmt.Errorf("failed to update book %d: %w", cmd.ID, err)
		}
		fmt.Fprintf(cmd.out, "Marked %q as %s\n", book.Title, cmd.Action)
	default:
		return cmd.list(cache.Books())
	}
	return nil
}

func (cmd *BooksCommand) list(books []client.Book) error {
	read, err := readFilter(cmd.Read)
	if err != nil {
		return err
	}

	state := client.SortState{}
	if cmd.Sort != "" {
		state = state.Toggle(client.SortColumn(cmd.Sort))
		if cmd.Desc {
			state = state.Toggle(state.Column)
		}
	}
	books = client.SortBooks(client.FilterBooks(books, cmd.Query, read), state)

	if len(books) == 0 {
		fmt.Fprintln(cmd.out, "No books found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tYEAR\tRATING\tREAD")
	for _, b := range books {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Title, orDash(b.Author), intOrDash(b.Year), intOrDash(b.Rating), yesNo(b.IsRead))
	}
	return w.Flush()
}

func readFilter(s string) (client.ReadFilter, error) {
	switch s {
	case "", "all":
		return client.AllBooks, nil
	case "read":
		return client.ReadBooks, nil
	case "unread":
		return client.UnreadBooks, nil
	default:
		return client.AllBooks, fmt.Errorf("invalid read filter: %s", s)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func intOrDash(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
