package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"booklibrary/internal/auth"
	"booklibrary/internal/catalog"
	"booklibrary/internal/service"
)

const accessTokenTTL = 24 * time.Hour

type UserHandler struct {
	users  *service.Users
	secret string
}

func NewUserHandler(users *service.Users, secret string) *UserHandler {
	return &UserHandler{users: users, secret: secret}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=7"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(input); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	u, err := h.users.Register(r.Context(), input.Username, input.Password)
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		JSONError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already taken", nil)
	case errors.Is(err, catalog.ErrInvalidUsername), errors.Is(err, catalog.ErrPasswordTooShort):
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case err != nil:
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not register user", nil)
	default:
		JSONSuccessCreated(w, map[string]string{"username": u.Username()})
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(input); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	u, err := h.users.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
		return
	}

	token, err := auth.GenerateToken(h.secret, u.Username(), accessTokenTTL)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "Could not issue token", nil)
		return
	}
	JSONSuccess(w, map[string]string{
		"username":     u.Username(),
		"access_token": token,
	}, nil)
}
