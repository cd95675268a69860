package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// MinPasswordLength is the minimum accepted password length. The domain
// only ever sees the stored (hashed) credential, but the same floor is
// applied to raw passwords at the service boundary.
const MinPasswordLength = 7

var (
	// ErrInvalidUsername is returned when a username is empty after
	// normalization.
	ErrInvalidUsername = errors.New("username must not be blank")
	// ErrPasswordTooShort is returned when a credential is shorter than
	// MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// User is identified by its normalized (trimmed, lower-cased) username.
// The reading list keeps insertion order; de-duplication is the
// repository's job, not the entity's.
type User struct {
	username     string
	passwordHash string
	readBookIDs  []int
	pagesRead    int
	reviews      []*Review
	readingList  []*Book
}

// NewUser constructs a user from a normalized username and an
// already-hashed password.
func NewUser(username, passwordHash string) (*User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(passwordHash) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	return &User{username: username, passwordHash: passwordHash}, nil
}

// NormalizeUsername trims and lower-cases a username so lookups and
// identity comparisons agree.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (u *User) Username() string { return u.username }

func (u *User) PasswordHash() string { return u.passwordHash }

// ReadBook records a finished book and accumulates its page count.
func (u *User) ReadBook(b *Book) {
	if b == nil {
		return
	}
	u.readBookIDs = append(u.readBookIDs, b.id)
	if pages, ok := b.NumPages(); ok {
		u.pagesRead += pages
	}
}

func (u *User) ReadBooks() []int { return u.readBookIDs }

func (u *User) PagesRead() int { return u.pagesRead }

func (u *User) Reviews() []*Review { return u.reviews }

func (u *User) attachReview(r *Review) {
	u.reviews = append(u.reviews, r)
}

func (u *User) hasReview(r *Review) bool {
	for _, existing := range u.reviews {
		if existing == r {
			return true
		}
	}
	return false
}

// ReadingList returns the user's reading list in insertion order.
func (u *User) ReadingList() []*Book { return u.readingList }

func (u *User) addToReadingList(b *Book) {
	u.readingList = append(u.readingList, b)
}

func (u *User) removeFromReadingList(b *Book) {
	for i, existing := range u.readingList {
		if existing.id == b.id {
			u.readingList = append(u.readingList[:i], u.readingList[i+1:]...)
			return
		}
	}
}

func (u *User) onReadingList(id int) bool {
	for _, existing := range u.readingList {
		if existing.id == id {
			return true
		}
	}
	return false
}
