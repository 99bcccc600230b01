// package models defines the data model for the todo client
package models

import (
	"net/url"
	"strings"
)

// User is the profile returned by GET /user/.
type User struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	ProfilePicture    bool   `json:"profile_picture"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// Avatar returns the picture URL when the user has one.
func (u User) Avatar() (string, bool) {
	if !u.ProfilePicture || u.ProfilePictureURL == "" {
		return "", false
	}
	return u.ProfilePictureURL, true
}

// TodoItem is one task as returned by GET /todo/.
type TodoItem struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Redirect is the authorization attempt carried by the provider redirect.
type Redirect struct {
	Code  string
	State string
}

// Present reports whether both halves of the attempt are set.
func (r Redirect) Present() bool {
	return r.Code != "" && r.State != ""
}

// RedirectFrom extracts the code and state query parameters from u.
func RedirectFrom(u *url.URL) Redirect {
	if u == nil {
		return Redirect{}
	}
	q := u.Query()
	return Redirect{
		Code:  strings.TrimSpace(q.Get("code")),
		State: strings.TrimSpace(q.Get("state")),
	}
}

// StripRedirect returns a copy of u without the code and state parameters.
//
// Other query parameters and the fragment are preserved.
func StripRedirect(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	stripped := *u
	q := stripped.Query()
	q.Del("code")
	q.Del("state")
	stripped.RawQuery = q.Encode()
	return &stripped
}

// WithRedirect returns a copy of u carrying r as its code and state parameters.
func WithRedirect(u *url.URL, r Redirect) *url.URL {
	var out url.URL
	if u != nil {
		out = *u
	}
	q := out.Query()
	q.Set("code", r.Code)
	q.Set("state", r.State)
	out.RawQuery = q.Encode()
	return &out
}
