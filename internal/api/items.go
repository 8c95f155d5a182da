package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/photos"
	"github.com/erazemk/najdeno/internal/store"
)

// recentLimit caps the "recent" public item listing.
const recentLimit = 3

// maxPhotoBytes limits uploaded photo size.
const maxPhotoBytes = 10 << 20

// ItemsHandler handles item submission, listing, and moderation endpoints.
type ItemsHandler struct {
	DB         *sql.DB
	UploadsDir string
}

type submitItemRequest struct {
	Title       string
	Description string
	Location    string
}

// Validate runs validation rules.
func (r submitItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Location, validation.Required),
	)
}

// List handles GET /api/items. Only approved items are ever returned;
// ?recent=true switches to the newest-first capped view.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if recent, _ := strconv.ParseBool(r.URL.Query().Get("recent")); recent {
		limit = recentLimit
	}

	items, err := store.ListItems(r.Context(), h.DB, model.ItemStatusApproved, limit)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Submit handles POST /api/items (multipart: title, description, location,
// optional image). The item is created in pending status for admin review.
func (h *ItemsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	req := submitItemRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
	}
	if err := req.Validate(); err != nil {
		jsonFail(w, "All fields are required")
		return
	}

	var photo string
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		photo, err = photos.Save(h.UploadsDir, file)
		if err != nil {
			slog.Warn("photo rejected", "error", err)
			jsonFail(w, "invalid photo: must be a JPEG or PNG image")
			return
		}
	}

	if _, err := store.CreateItem(r.Context(), h.DB, req.Title, req.Description, req.Location, photo); err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "could not submit item")
		return
	}

	jsonOK(w, "Item submitted for review!")
}

// Pending handles GET /api/pending (admin).
func (h *ItemsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, model.ItemStatusPending, 0)
	if err != nil {
		slog.Error("failed to list pending items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list pending items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Approve handles PUT /api/approve/{id} (admin). A missing id is a no-op.
func (h *ItemsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.ItemStatusApproved)
}

// Decline handles PUT /api/decline/{id} (admin). A missing id is a no-op.
func (h *ItemsHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.ItemStatusDeclined)
}

func (h *ItemsHandler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.SetItemStatus(r.Context(), h.DB, id, status); err != nil {
		slog.Error("failed to update item status", "id", id, "status", status, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	slog.Info("item moderated", "id", id, "status", status, "admin", GetClaims(r.Context()).Username)
	jsonOK(w, "")
}
