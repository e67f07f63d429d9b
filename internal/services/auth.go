package services

import (
	"context"
	"fmt"

	"plates-console/internal/models"
	"plates-console/internal/repository"
	"plates-console/internal/session"

	"github.com/rs/zerolog/log"
)

// Credentials are the account part of a registration
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// DonorRegistration is the donor sign-up form
type DonorRegistration struct {
	Credentials
	OrganizationName string  `json:"organization_name" validate:"required,max=255"`
	ContactPerson    string  `json:"contact_person" validate:"required,max=255"`
	Phone            string  `json:"phone" validate:"required,max=20"`
	Address          string  `json:"address" validate:"required,max=500"`
	City             string  `json:"city" validate:"required,max=100"`
	State            string  `json:"state" validate:"required,max=100"`
	PostalCode       string  `json:"postal_code" validate:"required,max=20"`
	Country          string  `json:"country" validate:"required,max=100"`
	Latitude         float64 `json:"latitude" validate:"latitude"`
	Longitude        float64 `json:"longitude" validate:"longitude"`
}

// NGORegistration is the NGO sign-up form
type NGORegistration struct {
	Credentials
	OrganizationName        string `json:"organization_name" validate:"required,max=255"`
	RegistrationNumber      string `json:"registration_number" validate:"required,max=100"`
	ContactPerson           string `json:"contact_person" validate:"required,max=255"`
	Phone                   string `json:"phone" validate:"required,max=20"`
	VerificationDocumentURL string `json:"verification_document_url,omitempty" validate:"omitempty,url,max=500"`
}

// ChangePasswordRequest is the password change form
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,nefield=OldPassword"`
}

type registerBody struct {
	UserData    registerUser `json:"user_data"`
	ProfileData any          `json:"profile_data"`
}

type registerUser struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// AuthService handles login, registration and the session lifecycle
type AuthService struct {
	users     *repository.UserRepository
	session   *session.Session
	validator *Validator
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, sess *session.Session, v *Validator) *AuthService {
	return &AuthService{
		users:     users,
		session:   sess,
		validator: v,
	}
}

// Login authenticates with the backend and stores the session
func (s *AuthService) Login(ctx context.Context, req repository.LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	pair, err := s.users.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, pair)
}

// RegisterDonor creates a donor account and logs it in
func (s *AuthService) RegisterDonor(ctx context.Context, req *DonorRegistration) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	profile := map[string]any{
		"organization_name": req.OrganizationName,
		"contact_person":    req.ContactPerson,
		"phone":             req.Phone,
		"address":           req.Address,
		"city":              req.City,
		"state":             req.State,
		"postal_code":       req.PostalCode,
		"country":           req.Country,
		"latitude":          req.Latitude,
		"longitude":         req.Longitude,
	}
	pair, err := s.users.RegisterDonor(ctx, registerBody{
		UserData:    registerUser{Email: req.Email, Password: req.Password, Role: models.RoleDonor},
		ProfileData: profile,
	})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, pair)
}

// RegisterNGO creates an NGO account, pending verification, and logs it in
func (s *AuthService) RegisterNGO(ctx context.Context, req *NGORegistration) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	profile := map[string]any{
		"organization_name":   req.OrganizationName,
		"registration_number": req.RegistrationNumber,
		"contact_person":      req.ContactPerson,
		"phone":               req.Phone,
	}
	if req.VerificationDocumentURL != "" {
		profile["verification_document_url"] = req.VerificationDocumentURL
	}
	pair, err := s.users.RegisterNGO(ctx, registerBody{
		UserData:    registerUser{Email: req.Email, Password: req.Password, Role: models.RoleNGO},
		ProfileData: profile,
	})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, pair)
}

// establish stores the tokens and the user they belong to. Any failure
// leaves the session anonymous.
func (s *AuthService) establish(ctx context.Context, pair *models.TokenPair) (*models.User, error) {
	if err := s.session.SetTokens(*pair); err != nil {
		s.clear()
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	user, err := s.users.Me(ctx)
	if err != nil {
		s.clear()
		return nil, err
	}
	if err := s.session.SetUser(user); err != nil {
		s.clear()
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	log.Info().
		Int("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("Logged in")
	return user, nil
}

// Restore verifies a stored session at startup. It returns nil when there is
// nothing to restore.
func (s *AuthService) Restore(ctx context.Context) (*models.User, error) {
	if s.session.AccessToken() == "" || s.session.User() == nil {
		return nil, nil
	}

	user, err := s.users.Me(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Stored session is no longer valid")
		s.clear()
		return nil, err
	}
	if err := s.session.SetUser(user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return user, nil
}

// Me refreshes the cached user from the backend
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	user, err := s.users.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetUser(user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return user, nil
}

// Logout ends the session. The backend call is best effort; local state is
// always cleared.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.session.AccessToken() != "" {
		if err := s.users.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("Backend logout failed")
		}
	}
	if err := s.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ChangePassword changes the password of the logged in user
func (s *AuthService) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	return s.users.ChangePassword(ctx, req.OldPassword, req.NewPassword)
}

// Session returns the session the service manages
func (s *AuthService) Session() *session.Session {
	return s.session
}

func (s *AuthService) clear() {
	if err := s.session.Clear(); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
}
