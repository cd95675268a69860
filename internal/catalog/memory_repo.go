package catalog

import (
	"context"
	"sort"
	"strings"
)

// MemoryRepo is the in-process Repository backend. One ordered book slice
// plus secondary indices answer every query without rescanning; each index
// holds ascending, duplicate-free book ids and is updated synchronously on
// AddBook. Not internally synchronized: callers serialize access.
type MemoryRepo struct {
	books       []*Book
	byID        map[int]*Book
	byLanguage  map[string][]int
	byAuthor    map[string][]int
	byPublisher map[string][]int
	byYear      map[int][]int
	authors     map[int]*Author
	publishers  map[string]*Publisher
	users       map[string]*User
	reviews     []*Review
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:        make(map[int]*Book),
		byLanguage:  make(map[string][]int),
		byAuthor:    make(map[string][]int),
		byPublisher: make(map[string][]int),
		byYear:      make(map[int][]int),
		authors:     make(map[int]*Author),
		publishers:  make(map[string]*Publisher),
		users:       make(map[string]*User),
	}
}

var _ Repository = (*MemoryRepo)(nil)

func (r *MemoryRepo) AddUser(_ context.Context, u *User) error {
	if u == nil {
		return ErrNotFound
	}
	r.users[u.username] = u
	return nil
}

func (r *MemoryRepo) GetUser(_ context.Context, username string) (*User, error) {
	u, ok := r.users[NormalizeUsername(username)]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) CountUsers(_ context.Context) (int, error) {
	return len(r.users), nil
}

// AddBook inserts the book in id order and registers it in every index
// whose attribute is present. Re-adding an already-known id is a no-op so
// no index can ever hold a duplicate entry.
func (r *MemoryRepo) AddBook(_ context.Context, b *Book) error {
	if b == nil {
		return ErrNotFound
	}
	if _, ok := r.byID[b.id]; ok {
		return nil
	}

	i := sort.Search(len(r.books), func(i int) bool { return r.books[i].id >= b.id })
	r.books = append(r.books, nil)
	copy(r.books[i+1:], r.books[i:])
	r.books[i] = b
	r.byID[b.id] = b

	if b.language != "" {
		r.byLanguage[b.language] = insertID(r.byLanguage[b.language], b.id)
	}
	for _, a := range b.authors {
		r.byAuthor[a.fullName] = insertID(r.byAuthor[a.fullName], b.id)
		if _, ok := r.authors[a.id]; !ok {
			r.authors[a.id] = a
		}
	}
	if b.publisher != nil {
		r.byPublisher[b.publisher.name] = insertID(r.byPublisher[b.publisher.name], b.id)
		if _, ok := r.publishers[b.publisher.name]; !ok {
			r.publishers[b.publisher.name] = b.publisher
		}
	}
	if year, ok := b.ReleaseYear(); ok {
		r.byYear[year] = insertID(r.byYear[year], b.id)
	}
	return nil
}

func (r *MemoryRepo) GetBook(_ context.Context, id int) (*Book, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) GetBooksByID(_ context.Context, ids []int) ([]*Book, error) {
	known := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := r.byID[id]; ok {
			known = append(known, id)
			seen[id] = struct{}{}
		}
	}
	sort.Ints(known)
	return r.booksForIDs(known), nil
}

func (r *MemoryRepo) GetBooksByAuthor(ctx context.Context, author string) ([]*Book, error) {
	ids, err := r.BookIDsForAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	return r.booksForIDs(ids), nil
}

func (r *MemoryRepo) GetBooksByLanguage(ctx context.Context, language string) ([]*Book, error) {
	ids, err := r.BookIDsForLanguage(ctx, language)
	if err != nil {
		return nil, err
	}
	return r.booksForIDs(ids), nil
}

func (r *MemoryRepo) GetBooksByPublisher(ctx context.Context, publisher string) ([]*Book, error) {
	ids, err := r.BookIDsForPublisher(ctx, publisher)
	if err != nil {
		return nil, err
	}
	return r.booksForIDs(ids), nil
}

func (r *MemoryRepo) GetBooksByReleaseYear(ctx context.Context, year int) ([]*Book, error) {
	ids, err := r.BookIDsForReleaseYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return r.booksForIDs(ids), nil
}

// GetBooksByTitle matches on substring; the ordered collection is scanned
// directly since titles carry no index.
func (r *MemoryRepo) GetBooksByTitle(_ context.Context, fragment string) ([]*Book, error) {
	var matches []*Book
	for _, b := range r.books {
		if strings.Contains(b.title, fragment) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoResults
	}
	return matches, nil
}

func (r *MemoryRepo) CountBooks(_ context.Context) (int, error) {
	return len(r.books), nil
}

func (r *MemoryRepo) FirstBook(_ context.Context) (*Book, error) {
	if len(r.books) == 0 {
		return nil, ErrNotFound
	}
	return r.books[0], nil
}

func (r *MemoryRepo) LastBook(_ context.Context) (*Book, error) {
	if len(r.books) == 0 {
		return nil, ErrNotFound
	}
	return r.books[len(r.books)-1], nil
}

// BookIDsForAuthor matches the author name on substring, merging the id
// lists of every matching index key.
func (r *MemoryRepo) BookIDsForAuthor(_ context.Context, author string) ([]int, error) {
	seen := make(map[int]struct{})
	var ids []int
	for name, bookIDs := range r.byAuthor {
		if !strings.Contains(name, author) {
			continue
		}
		for _, id := range bookIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoResults
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *MemoryRepo) BookIDsForLanguage(_ context.Context, language string) ([]int, error) {
	return idsOrNoResults(r.byLanguage[language])
}

func (r *MemoryRepo) BookIDsForPublisher(_ context.Context, publisher string) ([]int, error) {
	return idsOrNoResults(r.byPublisher[publisher])
}

func (r *MemoryRepo) BookIDsForReleaseYear(_ context.Context, year int) ([]int, error) {
	return idsOrNoResults(r.byYear[year])
}

func (r *MemoryRepo) Languages(_ context.Context) ([]string, error) {
	languages := make([]string, 0, len(r.byLanguage))
	for language := range r.byLanguage {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages, nil
}

func (r *MemoryRepo) Authors(_ context.Context) ([]*Author, error) {
	authors := make([]*Author, 0, len(r.authors))
	for _, a := range r.authors {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].id < authors[j].id })
	return authors, nil
}

func (r *MemoryRepo) Publishers(_ context.Context) ([]*Publisher, error) {
	publishers := make([]*Publisher, 0, len(r.publishers))
	for _, p := range r.publishers {
		publishers = append(publishers, p)
	}
	sort.Slice(publishers, func(i, j int) bool { return publishers[i].name < publishers[j].name })
	return publishers, nil
}

func (r *MemoryRepo) ReleaseYears(_ context.Context) ([]int, error) {
	years := make([]int, 0, len(r.byYear))
	for year := range r.byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

// AddReview fails closed: a review that is not reachable from both its
// book and its user is rejected and nothing is stored.
func (r *MemoryRepo) AddReview(_ context.Context, review *Review) error {
	if !review.linked() {
		return ErrIncompleteReview
	}
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *MemoryRepo) Reviews(_ context.Context) ([]*Review, error) {
	return r.reviews, nil
}

func (r *MemoryRepo) CountReviews(_ context.Context) (int, error) {
	return len(r.reviews), nil
}

func (r *MemoryRepo) ReadingList(ctx context.Context, username string) ([]*Book, error) {
	u, err := r.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.ReadingList(), nil
}

// AddToReadingList links the user and book both ways. Adding a pair that
// is already present is a no-op; the repository is the duplicate guard.
func (r *MemoryRepo) AddToReadingList(ctx context.Context, username string, bookID int) error {
	u, err := r.GetUser(ctx, username)
	if err != nil {
		return err
	}
	b, err := r.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if u.onReadingList(bookID) {
		return nil
	}
	u.addToReadingList(b)
	b.addReadingListUser(u.username)
	return nil
}

// RemoveFromReadingList is the inverse; removing an absent pair is a no-op.
func (r *MemoryRepo) RemoveFromReadingList(ctx context.Context, username string, bookID int) error {
	u, err := r.GetUser(ctx, username)
	if err != nil {
		return err
	}
	b, err := r.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	u.removeFromReadingList(b)
	b.removeReadingListUser(u.username)
	return nil
}

func (r *MemoryRepo) booksForIDs(ids []int) []*Book {
	books := make([]*Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, r.byID[id])
	}
	return books
}

// insertID keeps an index id list sorted and duplicate-free.
func insertID(ids []int, id int) []int {
	i := sort.SearchInts(ids, id)
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func idsOrNoResults(ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, ErrNoResults
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out, nil
}
