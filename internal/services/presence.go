package services

import (
	"context"
	"fmt"
	"net/http"
)

// PresenceService reads the public user count.
type PresenceService struct {
	api Requester
}

// NewPresenceService creates a [PresenceService] over api.
func NewPresenceService(api Requester) *PresenceService {
	return &PresenceService{api: api}
}

type rootResponse struct {
	UserCount int `json:"user_count"`
}

// UserCount fetches the number of registered users.
func (s *PresenceService) UserCount(ctx context.Context) (int, error) {
	resp, err := s.api.Request(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch user count: %w", err)
	}

	var body rootResponse
	if err := resp.Decode(&body); err != nil {
		return 0, err
	}
	return body.UserCount, nil
}
