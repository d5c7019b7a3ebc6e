package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/services"
)

type credentialsRequest struct {
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation *string `json:"password_confirmation"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := s.users.Signup(r.Context(), services.SignupInput{
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, newAuthView(res))
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, common.ErrorUnauthorized) {
		return errUnauthorized("Invalid email or password", err)
	}
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, newAuthView(res))
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	if err := s.db.Ping(r.Context()); err != nil {
		return newHTTPError(http.StatusServiceUnavailable, "database unavailable", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
