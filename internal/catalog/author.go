package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlankName is returned when an author or user name is empty or
// whitespace.
var ErrBlankName = errors.New("name must not be blank")

// Author identifies a book author by a unique non-negative id. The
// coauthor set records which other authors this one has shared a book
// with; it holds author ids, never the authors themselves.
type Author struct {
	id        int
	fullName  string
	coauthors map[int]struct{}
}

func NewAuthor(id int, fullName string) (*Author, error) {
	if id < 0 {
		return nil, fmt.Errorf("author %d: %w", id, ErrInvalidID)
	}
	a := &Author{id: id, coauthors: make(map[int]struct{})}
	if err := a.SetFullName(fullName); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Author) ID() int { return a.id }

func (a *Author) FullName() string { return a.fullName }

func (a *Author) SetFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return fmt.Errorf("author %d: %w", a.id, ErrBlankName)
	}
	a.fullName = fullName
	return nil
}

// AddCoauthor records that this author worked with another. An author
// never coauthors with itself.
func (a *Author) AddCoauthor(other *Author) {
	if other == nil || other.id == a.id {
		return
	}
	a.coauthors[other.id] = struct{}{}
}

func (a *Author) CoauthoredWith(other *Author) bool {
	if other == nil {
		return false
	}
	_, ok := a.coauthors[other.id]
	return ok
}
