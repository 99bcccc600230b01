// Package services is the client for the todo backend's REST API.
//
// [APIService] sends JSON requests through an [http.Client] whose cookie jar carries the session.
// It adds an X-Request-ID to each request, paces requests with a token bucket and turns
// non-success statuses into [HTTPError] values.
//
// The endpoint wrappers sit on top of a [Requester]:
//   - [AccountService] : current user, GitHub login start and completion, logout
//   - [TodoService] : list, create, update and delete items
//   - [PresenceService] : public user count
//
// # Error Handling
//
// Errors are wrapped so callers can classify them with [errors.Is]:
//   - [shared.ErrNetwork] : the request could not be completed
//   - [shared.ErrHTTPStatus] : a response arrived with a non-2xx status
package services
