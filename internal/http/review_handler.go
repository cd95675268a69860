package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklibrary/internal/catalog"
	"booklibrary/internal/service"
)

type ReviewHandler struct {
	books *service.Books
}

func NewReviewHandler(books *service.Books) *ReviewHandler {
	return &ReviewHandler{books: books}
}

type addReviewRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.books.Reviews(r.Context())
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not list reviews", nil)
		return
	}
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}
	JSONSuccess(w, out, nil)
}

func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "book id must be an integer", nil)
		return
	}

	var input addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(input); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	review, err := h.books.AddReview(r.Context(), bookID, UsernameFrom(r), input.Text, input.Rating)
	switch {
	case errors.Is(err, service.ErrUnknownBook):
		JSONError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", nil)
	case errors.Is(err, service.ErrUnknownUser):
		JSONError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	case errors.Is(err, catalog.ErrInvalidRating):
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5", nil)
	case err != nil:
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not add review", nil)
	default:
		JSONSuccessCreated(w, toReviewResponse(review))
	}
}
