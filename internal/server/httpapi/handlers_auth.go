package httpapi

import (
	"net/http"

	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken        string `json:"access_token"`
	RefreshToken       string `json:"refresh_token"`
	UserID             string `json:"user_id"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, err)
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		renderError(w, err)
		return
	}

	sess, err := s.auth.ResolveSession(r.Context(), pair.AccessToken)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, loginResponse{
		AccessToken:        pair.AccessToken,
		RefreshToken:       pair.RefreshToken,
		UserID:             sess.UserID,
		Role:               string(sess.Role),
		MustChangePassword: sess.MustChangePassword,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, err)
		return
	}

	pair, err := s.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		renderJSON(w, http.StatusUnauthorized, apiError{Error: "Unauthorized"})
		return
	}

	renderJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, err)
		return
	}

	if err := s.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		renderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, err)
		return
	}

	sess := sessionFrom(r.Context())
	if err := s.auth.ChangePassword(r.Context(), sess.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		renderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	*models.Profile
	Role  string `json:"role"`
	State string `json:"state"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	profile, err := s.employees.Me(r.Context(), sess)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, meResponse{
		Profile: profile,
		Role:    string(sess.Role),
		State:   sess.State().String(),
	})
}
