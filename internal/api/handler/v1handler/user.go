package v1handler

import (
	"encoding/json"
	"identity/pkg/domain"
	"identity/pkg/serrors"
	"net/http"
	"strconv"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type createSessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUser registers a new user from the submitted credentials.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrValidation, err, "malformed request body"))

		return
	}

	id, err := h.deps.Identity.RegisterUser(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	h.registrations.Add(ctx, 1)

	summary, err := h.deps.Identity.GetUserByID(ctx, id)
	if err != nil || summary == nil {
		// registration committed; fall back to the echo of what we stored
		writeJSON(ctx, w, http.StatusCreated, userResponse{ID: int64(id)})

		return
	}

	writeJSON(ctx, w, http.StatusCreated, userResponse{
		ID:       int64(summary.ID),
		Username: summary.Username,
		Email:    summary.Email,
	})
}

// GetUser returns the stored summary for the user id in the path.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrValidation, err, "user id must be an integer"))

		return
	}

	summary, err := h.deps.Identity.GetUserByID(ctx, domain.UserID(id))
	if err != nil {
		writeError(ctx, w, err)

		return
	}
	if summary == nil {
		writeError(ctx, w, serrors.With(serrors.ErrNotFound, "user not found"))

		return
	}

	writeJSON(ctx, w, http.StatusOK, userResponse{
		ID:       int64(summary.ID),
		Username: summary.Username,
		Email:    summary.Email,
	})
}

// CreateSession verifies credentials and returns the matching user summary.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrValidation, err, "malformed request body"))

		return
	}

	summary, err := h.deps.Identity.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, userResponse{
		ID:       int64(summary.ID),
		Username: summary.Username,
		Email:    summary.Email,
	})
}
