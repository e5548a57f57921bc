package service

import (
	"strings"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/auth"
	"camara-formacion/internal/models"
)

// AuthService handles registration, login and token-to-actor resolution
type AuthService struct {
	core  *core
	auth  *auth.Service
	audit *AuditService
}

// RegisterInput is the payload for creating a login account
type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role,omitempty"`
}

// LoginResult carries the issued token and the user it belongs to
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates a new login account. The default role is participant.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.RuleViolation("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, apperrors.RuleViolation("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.RuleViolation("name is required")
	}

	role := in.Role
	if role == "" {
		role = models.RoleParticipant
	}
	switch role {
	case models.RoleAdministrator, models.RoleInstructor, models.RoleParticipant:
	default:
		return nil, apperrors.RuleViolation("unknown role")
	}

	existing, err := s.core.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("email is already registered")
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:           newID("user"),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.core.now(),
	}
	if err := s.core.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.audit.Log(user.ID, "user_registered", "user", user.ID, map[string]any{
		"email": user.Email,
		"role":  user.Role,
	})
	return user, nil
}

// Login verifies credentials and issues a JWT
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.core.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.auth.VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.AccessDenied("invalid email or password")
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	return &LoginResult{Token: token, User: *user}, nil
}

// Me returns the account behind an actor
func (s *AuthService) Me(actor models.Actor) (*models.User, error) {
	user, err := s.core.store.GetUserByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}
