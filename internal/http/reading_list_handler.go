package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklibrary/internal/service"
)

type ReadingListHandler struct {
	readingLists *service.ReadingLists
}

func NewReadingListHandler(readingLists *service.ReadingLists) *ReadingListHandler {
	return &ReadingListHandler{readingLists: readingLists}
}

type addReadingListRequest struct {
	BookID *int `json:"book_id" validate:"required,min=0"`
}

func (h *ReadingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	books, err := h.readingLists.Get(r.Context(), UsernameFrom(r))
	if errors.Is(err, service.ErrUnknownUser) {
		JSONError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
		return
	}
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not load reading list", nil)
		return
	}
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	JSONSuccess(w, out, nil)
}

func (h *ReadingListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input addReadingListRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(input); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	h.mutate(w, r, *input.BookID, h.readingLists.Add, http.StatusCreated)
}

func (h *ReadingListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "book id must be an integer", nil)
		return
	}
	h.mutate(w, r, bookID, h.readingLists.Remove, http.StatusNoContent)
}

func (h *ReadingListHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	bookID int,
	op func(ctx context.Context, username string, bookID int) error,
	okStatus int,
) {
	err := op(r.Context(), UsernameFrom(r), bookID)
	switch {
	case errors.Is(err, service.ErrUnknownBook):
		JSONError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", nil)
	case errors.Is(err, service.ErrUnknownUser):
		JSONError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	case err != nil:
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not update reading list", nil)
	case okStatus == http.StatusNoContent:
		JSONSuccessNoContent(w)
	default:
		JSONSuccessCreated(w, map[string]int{"book_id": bookID})
	}
}
