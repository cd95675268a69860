package service

import (
	"context"
	"errors"

	"booklibrary/internal/catalog"
)

// ReadingLists manages per-user reading-list membership. The repository
// guards duplicates; this layer only translates missing references into
// the caller-facing unknown-book/unknown-user errors.
type ReadingLists struct {
	repo catalog.Repository
}

func NewReadingLists(repo catalog.Repository) *ReadingLists {
	return &ReadingLists{repo: repo}
}

func (s *ReadingLists) Get(ctx context.Context, username string) ([]*catalog.Book, error) {
	books, err := s.repo.ReadingList(ctx, username)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	return books, err
}

func (s *ReadingLists) Add(ctx context.Context, username string, bookID int) error {
	if err := s.checkRefs(ctx, username, bookID); err != nil {
		return err
	}
	return s.repo.AddToReadingList(ctx, username, bookID)
}

func (s *ReadingLists) Remove(ctx context.Context, username string, bookID int) error {
	if err := s.checkRefs(ctx, username, bookID); err != nil {
		return err
	}
	return s.repo.RemoveFromReadingList(ctx, username, bookID)
}

func (s *ReadingLists) checkRefs(ctx context.Context, username string, bookID int) error {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return ErrUnknownBook
		}
		return err
	}
	if _, err := s.repo.GetUser(ctx, username); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return ErrUnknownUser
		}
		return err
	}
	return nil
}
