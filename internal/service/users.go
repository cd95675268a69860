package service

import (
	"context"
	"errors"

	"booklibrary/internal/auth"
	"booklibrary/internal/catalog"
)

var (
	ErrAlreadyExists = errors.New("username already taken")
	ErrUnauthorized  = errors.New("invalid username or password")
)

type Users struct {
	repo catalog.Repository
}

func NewUsers(repo catalog.Repository) *Users {
	return &Users{repo: repo}
}

// Register validates the raw password, hashes it, and stores the new
// user. The domain constructor re-validates the username.
func (s *Users) Register(ctx context.Context, username, password string) (*catalog.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, username); err == nil {
		return nil, ErrAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := catalog.NewUser(username, hash)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Users) Authenticate(ctx context.Context, username, password string) (*catalog.User, error) {
	u, err := s.repo.GetUser(ctx, username)
	if err != nil || !auth.VerifyPassword(u.PasswordHash(), password) {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *Users) Get(ctx context.Context, username string) (*catalog.User, error) {
	u, err := s.repo.GetUser(ctx, username)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	return u, err
}

func (s *Users) Count(ctx context.Context) (int, error) {
	return s.repo.CountUsers(ctx)
}
