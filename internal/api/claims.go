package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// ClaimsHandler handles the claim lifecycle endpoints.
type ClaimsHandler struct {
	DB *sql.DB
}

type submitClaimRequest struct {
	ItemID   *int64 `json:"item_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Features string `json:"features"`
	Teacher  string `json:"teacher"`
}

// Validate runs validation rules.
func (r submitClaimRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Reason, validation.Required),
		validation.Field(&r.Teacher, validation.Required),
	)
}

// Submit handles POST /api/claims. Anonymous submissions are accepted; when
// the request carries a valid bearer token, the token's identity overrides
// whatever the body claims.
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		jsonFail(w, "name, reason, and teacher are required")
		return
	}

	username, email := req.Username, req.Email
	if claims := GetClaims(r.Context()); claims != nil {
		username, email = claims.Username, claims.Email
	}
	if username == "" {
		username = model.AnonymousUsername
	}
	if email == "" {
		email = model.AnonymousEmail
	}

	if _, err := store.CreateClaim(r.Context(), h.DB, req.ItemID,
		username, email, req.Name, req.Reason, req.Features, req.Teacher); err != nil {
		slog.Error("failed to create claim", "error", err)
		jsonError(w, http.StatusInternalServerError, "could not submit claim")
		return
	}

	jsonOK(w, "Claim submitted successfully!")
}

// Pending handles GET /api/claims/pending (admin).
func (h *ClaimsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	claims, err := store.ListPendingClaims(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list pending claims", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list pending claims")
		return
	}
	if claims == nil {
		claims = []model.ClaimWithItem{}
	}
	jsonResponse(w, http.StatusOK, claims)
}

// Approve handles PUT /api/claims/approve/{id} (admin). Approval cascades:
// the item is marked claimed and competing claims are declined.
func (h *ClaimsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}

	if err := store.ApproveClaim(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "Claim not found")
			return
		}
		slog.Error("failed to approve claim", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to approve claim")
		return
	}

	slog.Info("claim approved", "id", id, "admin", GetClaims(r.Context()).Username)
	jsonOK(w, "Approved and item hidden from public list.")
}

// Decline handles PUT /api/claims/decline/{id} (admin). The item returns to
// the public approved list.
func (h *ClaimsHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}

	if err := store.DeclineClaim(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "Claim not found")
			return
		}
		slog.Error("failed to decline claim", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to decline claim")
		return
	}

	slog.Info("claim declined", "id", id, "admin", GetClaims(r.Context()).Username)
	jsonOK(w, "Claim declined and item returned to list.")
}

// Delete handles DELETE /api/claims/{id}. Only the claim's owner or an admin
// may delete it; deleting an approved claim retires the linked item.
func (h *ClaimsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to look up claim", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "Claim not found")
		return
	}

	requester := GetClaims(r.Context())
	if requester.Role != model.RoleAdmin && requester.Username != claim.Username {
		jsonError(w, http.StatusForbidden, "you can only delete your own claims")
		return
	}

	if err := store.DeleteClaim(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "Claim not found")
			return
		}
		slog.Error("failed to delete claim", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete claim")
		return
	}

	slog.Info("claim deleted", "id", id, "requester", requester.Username)
	jsonOK(w, "Claim deleted successfully")
}

// UserClaims handles GET /api/user/claims/{username}. Users see only their
// own claims; admins may view anyone's.
func (h *ClaimsHandler) UserClaims(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	requester := GetClaims(r.Context())
	if requester.Role != model.RoleAdmin && requester.Username != username {
		jsonError(w, http.StatusForbidden, "you can only view your own claims")
		return
	}

	claims, err := store.ListUserClaims(r.Context(), h.DB, username)
	if err != nil {
		slog.Error("failed to list user claims", "username", username, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load profile data")
		return
	}
	if claims == nil {
		claims = []model.ClaimWithItem{}
	}
	jsonResponse(w, http.StatusOK, claims)
}

func claimID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return 0, false
	}
	return id, true
}
