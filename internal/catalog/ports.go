package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound marks an absent id or username. Lookups never fail any
	// other way for a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrNoResults marks a filtered query that matched zero books. It is
	// distinct from an empty slice: bulk-id lookups and the enumeration
	// operations return empty slices instead.
	ErrNoResults = errors.New("no results")
	// ErrIncompleteReview is the integrity error for a review that is not
	// linked into both its book's and its user's review lists. AddReview
	// rejects such reviews and leaves the repository unchanged.
	ErrIncompleteReview = errors.New("review not attached to both a book and a user")
)

// Repository is the single contract shared by the in-memory and the
// Postgres backends. Callers never branch on the backend; both agree on
// ordering (books ascend by id) and on the empty-result policy documented
// per method group.
type Repository interface {
	AddUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, username string) (*User, error)
	CountUsers(ctx context.Context) (int, error)

	AddBook(ctx context.Context, b *Book) error
	GetBook(ctx context.Context, id int) (*Book, error)
	// GetBooksByID drops unknown ids silently and returns the remainder
	// ascending by id; zero matches yield an empty slice, not ErrNoResults.
	GetBooksByID(ctx context.Context, ids []int) ([]*Book, error)
	GetBooksByAuthor(ctx context.Context, author string) ([]*Book, error)
	GetBooksByLanguage(ctx context.Context, language string) ([]*Book, error)
	GetBooksByPublisher(ctx context.Context, publisher string) ([]*Book, error)
	GetBooksByReleaseYear(ctx context.Context, year int) ([]*Book, error)
	GetBooksByTitle(ctx context.Context, fragment string) ([]*Book, error)
	CountBooks(ctx context.Context) (int, error)
	FirstBook(ctx context.Context) (*Book, error)
	LastBook(ctx context.Context) (*Book, error)

	// Id enumerations back pagination; like the filtered queries above
	// they return ErrNoResults on zero matches.
	BookIDsForAuthor(ctx context.Context, author string) ([]int, error)
	BookIDsForLanguage(ctx context.Context, language string) ([]int, error)
	BookIDsForPublisher(ctx context.Context, publisher string) ([]int, error)
	BookIDsForReleaseYear(ctx context.Context, year int) ([]int, error)

	// Attribute enumerations are de-duplicated and sorted; an empty
	// catalog yields empty slices.
	Languages(ctx context.Context) ([]string, error)
	Authors(ctx context.Context) ([]*Author, error)
	Publishers(ctx context.Context) ([]*Publisher, error)
	ReleaseYears(ctx context.Context) ([]int, error)

	AddReview(ctx context.Context, r *Review) error
	Reviews(ctx context.Context) ([]*Review, error)
	CountReviews(ctx context.Context) (int, error)

	ReadingList(ctx context.Context, username string) ([]*Book, error)
	AddToReadingList(ctx context.Context, username string, bookID int) error
	RemoveFromReadingList(ctx context.Context, username string, bookID int) error
}
