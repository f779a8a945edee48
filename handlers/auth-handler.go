package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AliShafique28/task-management-system-1/errs"
	"github.com/AliShafique28/task-management-system-1/logging"
	"github.com/AliShafique28/task-management-system-1/services"
)

type AuthHandler struct {
	UserService *services.UserService
	Blacklist   *services.TokenBlacklist
}

func NewAuthHandler(userService *services.UserService, blacklist *services.TokenBlacklist) *AuthHandler {
	return &AuthHandler{UserService: userService, Blacklist: blacklist}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("User registered: %s", user.Email)
	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "User registered successfully",
		Data:    user.Summary(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validation("Invalid request payload"))
		return
	}

	token, user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		Data:    loginResponse{Token: token, User: user.Summary()},
	})
}

// Logout blacklists the presented token so it can no longer authenticate.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		respondError(w, errs.Validation("Authorization header missing"))
		return
	}

	h.Blacklist.Add(strings.TrimPrefix(authHeader, "Bearer "))
	respondJSON(w, http.StatusOK, response{Success: true, Message: "Logged out successfully"})
}
