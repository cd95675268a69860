package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidID is returned when an entity is constructed with a
	// negative identifier.
	ErrInvalidID = errors.New("id must be non-negative")
	// ErrBlankTitle is returned when a book title is empty or whitespace.
	ErrBlankTitle = errors.New("title must not be blank")
)

// Book is a catalog entry. Its id is immutable after construction; every
// other attribute is set through a validating setter. Back-references
// (reviews, reading-list users) are maintained by MakeReview and the
// repository, not by callers.
type Book struct {
	id               int
	title            string
	description      string
	publisher        *Publisher
	authors          []*Author
	releaseYear      *int
	numPages         *int
	ebook            bool
	imageHyperlink   string
	language         string
	reviews          []*Review
	readingListUsers []string
}

// NewBook constructs a book with the two mandatory attributes. A negative
// id or a blank title fails construction; no partially valid book is ever
// produced.
func NewBook(id int, title string) (*Book, error) {
	if id < 0 {
		return nil, fmt.Errorf("book %d: %w", id, ErrInvalidID)
	}
	b := &Book{id: id}
	if err := b.SetTitle(title); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Book) ID() int { return b.id }

func (b *Book) Title() string { return b.title }

func (b *Book) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("book %d: %w", b.id, ErrBlankTitle)
	}
	b.title = title
	return nil
}

func (b *Book) Description() string { return b.description }

func (b *Book) SetDescription(description string) {
	b.description = strings.TrimSpace(description)
}

func (b *Book) Publisher() *Publisher { return b.publisher }

// SetPublisher records the owning publisher and registers this book on the
// publisher's back-reference. A nil publisher clears the association.
func (b *Book) SetPublisher(p *Publisher) {
	b.publisher = p
	if p != nil {
		p.addBook(b.id)
	}
}

func (b *Book) Authors() []*Author { return b.authors }

// AddAuthor appends an author, keeping the list ordered and duplicate-free.
func (b *Book) AddAuthor(a *Author) {
	if a == nil {
		return
	}
	for _, existing := range b.authors {
		if existing.id == a.id {
			return
		}
	}
	b.authors = append(b.authors, a)
}

func (b *Book) RemoveAuthor(a *Author) {
	if a == nil {
		return
	}
	for i, existing := range b.authors {
		if existing.id == a.id {
			b.authors = append(b.authors[:i], b.authors[i+1:]...)
			return
		}
	}
}

// ReleaseYear reports the release year and whether one has been set.
func (b *Book) ReleaseYear() (int, bool) {
	if b.releaseYear == nil {
		return 0, false
	}
	return *b.releaseYear, true
}

func (b *Book) SetReleaseYear(year int) error {
	if year < 0 {
		return fmt.Errorf("book %d: release year %d: %w", b.id, year, ErrInvalidID)
	}
	b.releaseYear = &year
	return nil
}

// NumPages reports the page count and whether one has been set.
func (b *Book) NumPages() (int, bool) {
	if b.numPages == nil {
		return 0, false
	}
	return *b.numPages, true
}

// SetNumPages ignores negative counts rather than failing: the source data
// is allowed to omit or garble the field.
func (b *Book) SetNumPages(pages int) {
	if pages < 0 {
		return
	}
	b.numPages = &pages
}

func (b *Book) Ebook() bool { return b.ebook }

func (b *Book) SetEbook(ebook bool) { b.ebook = ebook }

func (b *Book) ImageHyperlink() string { return b.imageHyperlink }

func (b *Book) SetImageHyperlink(url string) { b.imageHyperlink = url }

// Language returns the normalized English display name, or "" when no
// language has been set.
func (b *Book) Language() string { return b.language }

// SetLanguage normalizes an ISO 639 code to its English display name.
// An empty code defaults to English; an unknown code is an error.
func (b *Book) SetLanguage(code string) error {
	if strings.TrimSpace(code) == "" {
		b.language = "English"
		return nil
	}
	name, err := LanguageName(code)
	if err != nil {
		return fmt.Errorf("book %d: %w", b.id, err)
	}
	b.language = name
	return nil
}

func (b *Book) Reviews() []*Review { return b.reviews }

func (b *Book) attachReview(r *Review) {
	b.reviews = append(b.reviews, r)
}

func (b *Book) hasReview(r *Review) bool {
	for _, existing := range b.reviews {
		if existing == r {
			return true
		}
	}
	return false
}

// ReadingListUsers lists the usernames that keep this book on their
// reading list.
func (b *Book) ReadingListUsers() []string { return b.readingListUsers }

func (b *Book) addReadingListUser(username string) {
	b.readingListUsers = append(b.readingListUsers, username)
}

func (b *Book) removeReadingListUser(username string) {
	for i, existing := range b.readingListUsers {
		if existing == username {
			b.readingListUsers = append(b.readingListUsers[:i], b.readingListUsers[i+1:]...)
			return
		}
	}
}
