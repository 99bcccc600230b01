// package services wraps the backend REST endpoints
package services

import "context"

// Requester sends one JSON request to the backend. [APIService] is the production implementation.
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (*APIResponse, error)
}

var _ Requester = (*APIService)(nil)
