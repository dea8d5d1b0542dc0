package storefront

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/domain"
)

// AccountHandler signs customers up, in and out.
type AccountHandler struct{}

// NewAccountHandler creates a new account handler
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/account/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, "account.register", &req); err != nil {
		fail(w, r, err)
		return
	}

	user, err := currentSession(r).Account.Register(r.Context(), domain.RegisterParams{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, user)
}

// Login handles POST /api/account/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, "account.login", &req); err != nil {
		fail(w, r, err)
		return
	}

	user, err := currentSession(r).Account.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, user)
}

// Logout handles POST /api/account/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	currentSession(r).Account.Logout(r.Context())
	respond(w, r, http.StatusOK, nil)
}

// Me handles GET /api/account
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentSession(r).Account.Current(r.Context())
	if !ok {
		fail(w, r, domain.Errorf(domain.EUNAUTHORIZED, "account.current", "Please sign in to continue"))
		return
	}
	respond(w, r, http.StatusOK, user)
}
