package handlers

import (
	"encoding/json"
	"net/http"

	"camara-formacion/internal/service"
)

// AuthHandler handles registration, login and the current-user lookup
type AuthHandler struct {
	auth               *service.AuthService
	enableRegistration bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, enableRegistration bool) *AuthHandler {
	return &AuthHandler{
		auth:               auth,
		enableRegistration: enableRegistration,
	}
}

// Register creates a new login account
// @Summary Register a new user
// @Description Create a login account. The default role is participant.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration data"
// @Success 201 {object} models.User "Created user"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 422 {object} map[string]string "Validation failure"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.enableRegistration {
		respondWithError(w, http.StatusForbidden, "Registration is disabled")
		return
	}

	var in service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	user, err := h.auth.Register(in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// Login authenticates a user and issues a JWT
// @Summary Log in
// @Description Authenticate with email and password and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} service.LoginResult "Token and user"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	result, err := h.auth.Login(in.Email, in.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Me returns the authenticated user's profile
// @Summary Get current user
// @Description Return the profile of the authenticated user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "Current user"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Me(actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
