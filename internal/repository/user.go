package repository

import (
	"context"
	"fmt"
	"net/http"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// UserRepository handles the backend's authentication endpoints
type UserRepository struct {
	api *apiclient.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(api *apiclient.Client) *UserRepository {
	return &UserRepository{api: api}
}

// LoginRequest is the body of /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a token pair
func (r *UserRepository) Login(ctx context.Context, req LoginRequest) (*models.TokenPair, error) {
	var pair models.TokenPair
	err := r.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   req,
		Public: true,
	}, &pair)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &pair, nil
}

// RegisterDonor creates a donor account
func (r *UserRepository) RegisterDonor(ctx context.Context, body any) (*models.TokenPair, error) {
	return r.register(ctx, "/auth/register/donor", body)
}

// RegisterNGO creates an NGO account
func (r *UserRepository) RegisterNGO(ctx context.Context, body any) (*models.TokenPair, error) {
	return r.register(ctx, "/auth/register/ngo", body)
}

func (r *UserRepository) register(ctx context.Context, path string, body any) (*models.TokenPair, error) {
	var pair models.TokenPair
	err := r.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
		Public: true,
	}, &pair)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return &pair, nil
}

// Me retrieves the authenticated user
func (r *UserRepository) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.api.Get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &user, nil
}

// ChangePassword changes the password of the authenticated user
func (r *UserRepository) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	if err := r.api.Put(ctx, "/auth/change-password", body, nil); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// Logout notifies the backend that the session ends
func (r *UserRepository) Logout(ctx context.Context) error {
	if err := r.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}
