package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// AuthHandler handles login and signup endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate runs validation rules.
func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate runs validation rules.
func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required,
			validation.Length(model.MinPasswordLength, 0)),
	)
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// AdminLogin handles POST /api/admin/login.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, model.RoleAdmin)
}

// UserLogin handles POST /api/user/login.
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, model.RoleUser)
}

// login authenticates a principal of the given role and issues a session
// token. Failures use the success:false envelope rather than error statuses
// so login forms handle a single response shape.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, role string) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		jsonFail(w, "username and password required")
		return
	}

	user, err := store.GetUserByUsername(r.Context(), h.DB, req.Username, role)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonFail(w, role+" not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "username", req.Username, "role", role, "remote", r.RemoteAddr)
		jsonFail(w, "invalid password")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("logged in", "username", user.Username, "role", user.Role)

	resp := loginResponse{Success: true, Token: token}
	if role == model.RoleUser {
		// The profile page bootstraps from the login response.
		resp.Username = user.Username
		resp.Email = user.Email
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Signup handles POST /api/user/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		jsonFail(w, err.Error())
		return
	}

	exists, err := store.UserExists(r.Context(), h.DB, req.Username, req.Email)
	if err != nil {
		slog.Error("signup existence check failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if exists {
		jsonFail(w, "username or email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if _, err := store.CreateUser(r.Context(), h.DB, req.Username, req.Email, string(hash), model.RoleUser); err != nil {
		// Lost a race with a concurrent signup for the same name.
		slog.Warn("signup insert failed", "username", req.Username, "error", err)
		jsonFail(w, "username or email already exists")
		return
	}

	slog.Info("user signed up", "username", req.Username)
	jsonOK(w, "")
}
