package ingest

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"booklibrary/internal/auth"
	"booklibrary/internal/catalog"

	"github.com/google/uuid"
)

// Config names the four data files inside DataDir.
type Config struct {
	DataDir     string
	BooksFile   string
	AuthorsFile string
	UsersFile   string
	ReviewsFile string
}

func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:     dataDir,
		BooksFile:   "comic_books_excerpt.json",
		AuthorsFile: "book_authors_excerpt.json",
		UsersFile:   "users.csv",
		ReviewsFile: "reviews.csv",
	}
}

// Service populates a repository from the data files. Books load first,
// then users, then reviews, so every review's book and user already
// exist when AddReview runs.
type Service struct {
	repo catalog.Repository
	cfg  Config
}

func NewService(repo catalog.Repository, cfg Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	runID := uuid.New().String()
	started := time.Now()
	log.Printf("ingest %s: loading from %s", runID, s.cfg.DataDir)

	booksLoaded, err := s.loadBooks(ctx)
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}
	userKeys, err := s.loadUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	reviewsLoaded, err := s.loadReviews(ctx, userKeys)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}

	log.Printf("ingest %s: %d books, %d users, %d reviews in %s",
		runID, booksLoaded, len(userKeys), reviewsLoaded, time.Since(started).Round(time.Millisecond))
	return nil
}

func (s *Service) loadBooks(ctx context.Context) (int, error) {
	authorNames, err := ReadAuthorsFile(filepath.Join(s.cfg.DataDir, s.cfg.AuthorsFile))
	if err != nil {
		return 0, err
	}
	books, err := ReadBooksFile(filepath.Join(s.cfg.DataDir, s.cfg.BooksFile), authorNames)
	if err != nil {
		return 0, err
	}
	for _, b := range books {
		if err := s.repo.AddBook(ctx, b); err != nil {
			return 0, err
		}
	}
	return len(books), nil
}

// loadUsers hashes the raw passwords from the users file and returns the
// file-key → username map the reviews file references.
func (s *Service) loadUsers(ctx context.Context) (map[string]string, error) {
	rows, err := ReadCSVFile(filepath.Join(s.cfg.DataDir, s.cfg.UsersFile))
	if err != nil {
		return nil, err
	}
	userKeys := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("users file: short row %v", row)
		}
		hash, err := auth.HashPassword(row[2])
		if err != nil {
			return nil, err
		}
		u, err := catalog.NewUser(row[1], hash)
		if err != nil {
			return nil, err
		}
		if err := s.repo.AddUser(ctx, u); err != nil {
			return nil, err
		}
		userKeys[row[0]] = u.Username()
	}
	return userKeys, nil
}

func (s *Service) loadReviews(ctx context.Context, userKeys map[string]string) (int, error) {
	rows, err := ReadCSVFile(filepath.Join(s.cfg.DataDir, s.cfg.ReviewsFile))
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, row := range rows {
		if len(row) < 5 {
			return 0, fmt.Errorf("reviews file: short row %v", row)
		}
		bookID, err := strconv.Atoi(row[2])
		if err != nil {
			return 0, fmt.Errorf("reviews file: bad book id %q", row[2])
		}
		rating, err := strconv.Atoi(row[4])
		if err != nil {
			return 0, fmt.Errorf("reviews file: bad rating %q", row[4])
		}
		username, ok := userKeys[row[1]]
		if !ok {
			return 0, fmt.Errorf("reviews file: unknown user key %q", row[1])
		}

		book, err := s.repo.GetBook(ctx, bookID)
		if err != nil {
			return 0, fmt.Errorf("reviews file: book %d: %w", bookID, err)
		}
		user, err := s.repo.GetUser(ctx, username)
		if err != nil {
			return 0, fmt.Errorf("reviews file: user %s: %w", username, err)
		}
		review, err := catalog.MakeReview(book, user, row[3], rating)
		if err != nil {
			return 0, err
		}
		if err := s.repo.AddReview(ctx, review); err != nil {
			return 0, err
		}
		loaded++
	}
	return loaded, nil
}
