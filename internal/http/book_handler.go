package http

import (
	"errors"
	"net/http"
	"strconv"

	"booklibrary/internal/catalog"
	"booklibrary/internal/service"
)

type BookHandler struct {
	books *service.Books
}

func NewBookHandler(books *service.Books) *BookHandler {
	return &BookHandler{books: books}
}

type authorResponse struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
}

type bookResponse struct {
	ID             int              `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	Publisher      string           `json:"publisher,omitempty"`
	Authors        []authorResponse `json:"authors"`
	ReleaseYear    *int             `json:"release_year,omitempty"`
	NumPages       *int             `json:"num_pages,omitempty"`
	Ebook          bool             `json:"ebook"`
	ImageHyperlink string           `json:"image_hyperlink,omitempty"`
	Language       string           `json:"language,omitempty"`
}

type reviewResponse struct {
	BookID   int    `json:"book_id"`
	Username string `json:"username"`
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	Created  string `json:"created_at"`
}

func toBookResponse(b *catalog.Book) bookResponse {
	resp := bookResponse{
		ID:             b.ID(),
		Title:          b.Title(),
		Description:    b.Description(),
		Authors:        []authorResponse{},
		Ebook:          b.Ebook(),
		ImageHyperlink: b.ImageHyperlink(),
		Language:       b.Language(),
	}
	if p := b.Publisher(); p != nil {
		resp.Publisher = p.Name()
	}
	for _, a := range b.Authors() {
		resp.Authors = append(resp.Authors, authorResponse{ID: a.ID(), FullName: a.FullName()})
	}
	if year, ok := b.ReleaseYear(); ok {
		resp.ReleaseYear = &year
	}
	if pages, ok := b.NumPages(); ok {
		resp.NumPages = &pages
	}
	return resp
}

func toReviewResponse(r *catalog.Review) reviewResponse {
	return reviewResponse{
		BookID:   r.Book().ID(),
		Username: r.User().Username(),
		Text:     r.Text(),
		Rating:   r.Rating(),
		Created:  r.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List filters on at most one of language, author, publisher, year or
// title substring, then paginates. A filter that matches nothing is an
// empty page, not an error: the no-results sentinel stops here.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, perPage := parsePagination(query.Get("page"), query.Get("per_page"))

	var (
		books []*catalog.Book
		err   error
	)
	switch {
	case query.Get("language") != "":
		books, err = h.books.ByLanguage(r.Context(), query.Get("language"))
	case query.Get("author") != "":
		books, err = h.books.ByAuthor(r.Context(), query.Get("author"))
	case query.Get("publisher") != "":
		books, err = h.books.ByPublisher(r.Context(), query.Get("publisher"))
	case query.Get("year") != "":
		year, convErr := strconv.Atoi(query.Get("year"))
		if convErr != nil {
			JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "year must be an integer", nil)
			return
		}
		books, err = h.books.ByReleaseYear(r.Context(), year)
	default:
		// An empty title fragment matches every book.
		books, err = h.books.ByTitle(r.Context(), query.Get("title"))
	}
	if errors.Is(err, catalog.ErrNoResults) {
		JSONSuccess(w, []bookResponse{}, map[string]int{"total": 0, "page": page})
		return
	}
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not list books", nil)
		return
	}

	total := len(books)
	start := page * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	pageBooks := make([]bookResponse, 0, end-start)
	for _, b := range books[start:end] {
		pageBooks = append(pageBooks, toBookResponse(b))
	}
	JSONSuccess(w, pageBooks, map[string]int{"total": total, "page": page})
}

// Get returns one book with its reviews.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "book id must be an integer", nil)
		return
	}
	b, err := h.books.Get(r.Context(), id)
	if errors.Is(err, service.ErrUnknownBook) {
		JSONError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", nil)
		return
	}
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not load book", nil)
		return
	}

	reviews := make([]reviewResponse, 0, len(b.Reviews()))
	for _, review := range b.Reviews() {
		reviews = append(reviews, toReviewResponse(review))
	}
	JSONSuccess(w, map[string]interface{}{
		"book":    toBookResponse(b),
		"reviews": reviews,
	}, nil)
}

// Facets serves the navigation lists used to build catalog filters.
func (h *BookHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.books.Facets(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not load catalog facets", nil)
		return
	}

	authors := make([]authorResponse, 0, len(facets.Authors))
	for _, a := range facets.Authors {
		authors = append(authors, authorResponse{ID: a.ID(), FullName: a.FullName()})
	}
	publishers := make([]string, 0, len(facets.Publishers))
	for _, p := range facets.Publishers {
		publishers = append(publishers, p.Name())
	}
	JSONSuccess(w, map[string]interface{}{
		"languages":     facets.Languages,
		"authors":       authors,
		"publishers":    publishers,
		"release_years": facets.ReleaseYears,
	}, nil)
}

func parsePagination(pageStr, perPageStr string) (page, perPage int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 0 {
		page = 0
	}
	perPage, err := strconv.Atoi(perPageStr)
	if err != nil || perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
