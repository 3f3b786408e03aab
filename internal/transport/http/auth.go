package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xDbibix/Better-Ticketmaster/internal/app"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// SessionCookie carries the opaque session token.
const SessionCookie = "BTM_TOKEN"

// AuthService is the minimal interface the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	Logout(token string)
	CurrentUser(ctx context.Context, token string) (domain.User, error)
}

// SessionResolver resolves a session token to its user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (domain.User, error)
}

// authenticate resolves the session cookie. On failure it writes the 401 and
// reports false.
func authenticate(w http.ResponseWriter, r *http.Request, sessions SessionResolver) (domain.User, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return domain.User{}, false
	}
	user, err := sessions.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return domain.User{}, false
	}
	return user, true
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// HandleRegister returns an HTTP handler for user registration.
func HandleRegister(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, err := svc.Register(r.Context(), app.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Role:     domain.Role(req.Role),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toUserResponse(user))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin returns an HTTP handler that verifies credentials and sets the
// session cookie.
func HandleLogin(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toUserResponse(user))
	}
}

// HandleLogout returns an HTTP handler that drops the session.
func HandleLogout(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			svc.Logout(cookie.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleMe returns an HTTP handler that reports the logged-in user.
func HandleMe(svc SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		user, ok := authenticate(w, r, svc)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toUserResponse(user))
	}
}
