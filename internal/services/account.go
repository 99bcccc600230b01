package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// AccountService covers the user and GitHub OAuth endpoints.
type AccountService struct {
	api Requester
}

// NewAccountService creates an [AccountService] over api.
func NewAccountService(api Requester) *AccountService {
	return &AccountService{api: api}
}

type initLoginResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type completeLoginRequest struct {
	Code      string `json:"code"`
	CSRFToken string `json:"csrf_token"`
}

// Me fetches the profile of the session owner.
func (s *AccountService) Me(ctx context.Context) (*models.User, error) {
	resp, err := s.api.Request(ctx, http.MethodGet, "/user/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	var user models.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// InitLogin asks the backend to start an authorization attempt and returns the provider URL.
func (s *AccountService) InitLogin(ctx context.Context) (string, error) {
	resp, err := s.api.Request(ctx, http.MethodGet, "/user/auth/github/init", nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin login: %w", err)
	}

	var body initLoginResponse
	if err := resp.Decode(&body); err != nil {
		return "", err
	}
	if body.RedirectURL == "" {
		return "", fmt.Errorf("%w: empty redirect_url", shared.ErrAuthFailed)
	}
	return body.RedirectURL, nil
}

// CompleteLogin exchanges the redirect's code and state for a session cookie.
//
// The state is sent as csrf_token. The resulting session token arrives as a Set-Cookie header
// and lands in the client's jar.
func (s *AccountService) CompleteLogin(ctx context.Context, r models.Redirect) error {
	body := completeLoginRequest{Code: r.Code, CSRFToken: r.State}
	if _, err := s.api.Request(ctx, http.MethodPost, "/user/auth/github/success", body); err != nil {
		return fmt.Errorf("failed to complete login: %w", err)
	}
	return nil
}

// Logout invalidates the session on the server.
func (s *AccountService) Logout(ctx context.Context) error {
	if _, err := s.api.Request(ctx, http.MethodDelete, "/user/logout", nil); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}
