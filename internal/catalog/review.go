package catalog

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidRating is returned when a rating falls outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Review ties a user's rating and text to a book. A review is only valid
// once it is linked into both the book's and the user's review lists;
// MakeReview is the factory that establishes that linkage, and AddReview
// on a repository re-verifies it.
type Review struct {
	book      *Book
	user      *User
	text      string
	rating    int
	createdAt time.Time
}

// NewReview validates and constructs a review without linking it to its
// book or user. Repositories reject unlinked reviews; use MakeReview
// unless the linkage is established separately.
func NewReview(book *Book, user *User, text string, rating int) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return &Review{
		book:      book,
		user:      user,
		text:      strings.TrimSpace(text),
		rating:    rating,
		createdAt: time.Now(),
	}, nil
}

// MakeReview constructs a review and registers it on both the book and
// the user, so the bidirectional linkage is never left partial.
func MakeReview(book *Book, user *User, text string, rating int) (*Review, error) {
	if book == nil || user == nil {
		return nil, ErrIncompleteReview
	}
	r, err := NewReview(book, user, text, rating)
	if err != nil {
		return nil, err
	}
	book.attachReview(r)
	user.attachReview(r)
	return r, nil
}

func (r *Review) Book() *Book { return r.book }

func (r *Review) User() *User { return r.user }

func (r *Review) Text() string { return r.text }

func (r *Review) Rating() int { return r.rating }

func (r *Review) CreatedAt() time.Time { return r.createdAt }

// linked reports whether the review is reachable from both sides of its
// book/user relation.
func (r *Review) linked() bool {
	if r == nil || r.book == nil || r.user == nil {
		return false
	}
	return r.book.hasReview(r) && r.user.hasReview(r)
}
