package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"course-academy/internal/auth"
)

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var request SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := s.sessions.SignUp(request.Email, request.Password, request.Name, request.Phone)
	if err != nil {
		s.respondError(w, authErrorStatus(err), err.Error())
		return
	}

	response := SessionResponse{User: user, Token: token}
	if token == "" {
		response.Message = "يرجى تأكيد بريدك الإلكتروني لتفعيل الحساب"
	}

	s.respondJSON(w, http.StatusCreated, response)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var request SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := s.sessions.SignIn(request.Email, request.Password)
	if err != nil {
		s.respondError(w, authErrorStatus(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, SessionResponse{User: user, Token: token})
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(requestUserID(r)); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, MessageResponse{Message: "تم تسجيل الخروج"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.GetUserByID(requestUserID(r))
	if err != nil {
		s.respondError(w, http.StatusNotFound, auth.Localize(err))
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var request UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := s.sessions.UpdateUser(requestUserID(r), request.Name, request.Phone)
	if err != nil {
		s.respondError(w, authErrorStatus(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func authErrorStatus(err error) int {
	var vErr *auth.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}

	var rErr *auth.RemoteError
	if errors.As(err, &rErr) {
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}
