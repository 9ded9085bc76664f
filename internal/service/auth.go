package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"notesapi/internal/config"
	"notesapi/internal/model"
	"notesapi/internal/repository"
)

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Branch   string `json:"branch" validate:"required"`
	Semester int    `json:"semester" validate:"required,min=1,max=8"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService defines the authentication use cases.
type AuthService interface {
	// Signup creates the auth user, then writes the profile record. A profile
	// write failure after the user row exists is surfaced as-is; the user row
	// is not rolled back.
	Signup(ctx context.Context, req SignupRequest) (*model.Profile, error)

	// Login verifies credentials and issues a signed session token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Profile returns the profile for an authenticated user id.
	Profile(ctx context.Context, userID string) (*model.Profile, error)
}

type authService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	cfg      config.AuthConfig
	validate *validator.Validate
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, profiles repository.ProfileRepository, cfg config.AuthConfig) AuthService {
	return &authService{
		users:    users,
		profiles: profiles,
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*model.Profile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if !model.ValidBranch(req.Branch) {
		return nil, &ValidationError{Message: "Unknown branch: " + req.Branch}
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, &AuthError{Message: err.Error()}
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return nil, &AuthError{Message: err.Error()}
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	})
	if err != nil {
		return nil, &AuthError{Message: err.Error()}
	}

	// The profile shares the auth user's id. If this insert fails, the user
	// row stays: the failure is reported and the caller may retry signup
	// against support, matching the upstream behavior.
	profile, err := s.profiles.Create(ctx, &model.Profile{
		ID:        user.ID,
		FullName:  req.FullName,
		Email:     req.Email,
		Branch:    req.Branch,
		Semester:  req.Semester,
		CreatedAt: now,
	})
	if err != nil {
		return nil, &WriteError{Err: err}
	}
	return profile, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, &AuthError{Message: err.Error()}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expiresAt := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, &AuthError{Message: fmt.Sprintf("failed to sign token: %v", err)}
	}

	return &LoginResult{
		UserID:    user.ID,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrInvalidCredentials
	}
	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &AuthError{Message: "Profile not found"}
		}
		return nil, &FetchError{Err: err}
	}
	return p, nil
}
