package service

import (
	"context"
	"errors"

	"booklibrary/internal/catalog"
)

var (
	// ErrUnknownBook and ErrUnknownUser distinguish the two referential
	// failures a caller can make when attaching reviews or reading-list
	// entries, so the boundary can report a precise message.
	ErrUnknownBook = errors.New("unknown book")
	ErrUnknownUser = errors.New("unknown user")
)

// Books exposes the catalog query surface plus review attachment.
type Books struct {
	repo catalog.Repository
}

func NewBooks(repo catalog.Repository) *Books {
	return &Books{repo: repo}
}

func (s *Books) Get(ctx context.Context, id int) (*catalog.Book, error) {
	b, err := s.repo.GetBook(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrUnknownBook
	}
	return b, err
}

// Page resolves one page of a precomputed id listing into books. Ids not
// in the catalog are dropped, so a stale listing degrades instead of
// failing.
func (s *Books) Page(ctx context.Context, ids []int, page, perPage int) ([]*catalog.Book, error) {
	if perPage <= 0 || page < 0 {
		return []*catalog.Book{}, nil
	}
	start := page * perPage
	if start >= len(ids) {
		return []*catalog.Book{}, nil
	}
	end := start + perPage
	if end > len(ids) {
		end = len(ids)
	}
	return s.repo.GetBooksByID(ctx, ids[start:end])
}

func (s *Books) ByAuthor(ctx context.Context, author string) ([]*catalog.Book, error) {
	return s.repo.GetBooksByAuthor(ctx, author)
}

func (s *Books) ByLanguage(ctx context.Context, language string) ([]*catalog.Book, error) {
	return s.repo.GetBooksByLanguage(ctx, language)
}

func (s *Books) ByPublisher(ctx context.Context, publisher string) ([]*catalog.Book, error) {
	return s.repo.GetBooksByPublisher(ctx, publisher)
}

func (s *Books) ByReleaseYear(ctx context.Context, year int) ([]*catalog.Book, error) {
	return s.repo.GetBooksByReleaseYear(ctx, year)
}

func (s *Books) ByTitle(ctx context.Context, fragment string) ([]*catalog.Book, error) {
	return s.repo.GetBooksByTitle(ctx, fragment)
}

// Facets is the navigation data the front end builds its filters from.
type Facets struct {
	Languages    []string
	Authors      []*catalog.Author
	Publishers   []*catalog.Publisher
	ReleaseYears []int
}

func (s *Books) Facets(ctx context.Context) (Facets, error) {
	languages, err := s.repo.Languages(ctx)
	if err != nil {
		return Facets{}, err
	}
	authors, err := s.repo.Authors(ctx)
	if err != nil {
		return Facets{}, err
	}
	publishers, err := s.repo.Publishers(ctx)
	if err != nil {
		return Facets{}, err
	}
	years, err := s.repo.ReleaseYears(ctx)
	if err != nil {
		return Facets{}, err
	}
	return Facets{
		Languages:    languages,
		Authors:      authors,
		Publishers:   publishers,
		ReleaseYears: years,
	}, nil
}

// AddReview checks that both ends of the relation exist, builds the
// review through the linking factory, and stores it. Construction errors
// (bad rating) propagate unchanged.
func (s *Books) AddReview(ctx context.Context, bookID int, username, text string, rating int) (*catalog.Review, error) {
	b, err := s.repo.GetBook(ctx, bookID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrUnknownBook
	}
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, username)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	review, err := catalog.MakeReview(b, u, text, rating)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Books) Reviews(ctx context.Context) ([]*catalog.Review, error) {
	return s.repo.Reviews(ctx)
}
