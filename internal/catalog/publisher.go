package catalog

import (
	"sort"
	"strings"
)

// Publisher is identified by its normalized name. A blank name collapses
// to "N/A", so construction never fails. The book id set is a non-owning
// back-reference filled in by Book.SetPublisher.
type Publisher struct {
	name    string
	bookIDs []int
}

func NewPublisher(name string) *Publisher {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "N/A"
	}
	return &Publisher{name: name}
}

func (p *Publisher) Name() string { return p.name }

// BookIDs lists the ids of the books this publisher publishes, ascending.
func (p *Publisher) BookIDs() []int { return p.bookIDs }

func (p *Publisher) addBook(id int) {
	i := sort.SearchInts(p.bookIDs, id)
	if i < len(p.bookIDs) && p.bookIDs[i] == id {
		return
	}
	p.bookIDs = append(p.bookIDs, 0)
	copy(p.bookIDs[i+1:], p.bookIDs[i:])
	p.bookIDs[i] = id
}
