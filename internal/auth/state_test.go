package auth

import (
	"errors"
	"testing"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

func TestEvaluate(t *testing.T) {
	tc := []struct {
		name     string
		marker   bool
		redirect models.Redirect
		want     State
	}{
		{"nothing", false, models.Redirect{}, Anonymous},
		{"code without state", false, models.Redirect{Code: "abc"}, Anonymous},
		{"state without code", false, models.Redirect{State: "xyz"}, Anonymous},
		{"code and state", false, models.Redirect{Code: "abc", State: "xyz"}, OAuthPending},
		{"marker", true, models.Redirect{}, Authenticated},
		{"marker wins over redirect", true, models.Redirect{Code: "abc", State: "xyz"}, Authenticated},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.marker, tt.redirect); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Anonymous: "anonymous", OAuthPending: "oauth_pending", Authenticated: "authenticated"} {
		if s.String() != want {
			t.Errorf("%d.String() = %s, want %s", s, s.String(), want)
		}
	}
}

func TestVerifyRedirect(t *testing.T) {
	const authorize = "https://github.com/login/oauth/authorize"

	tc := []struct {
		name    string
		target  string
		wantErr error
	}{
		{"provider url with query", "https://github.com/login/oauth/authorize?client_id=1&state=x", nil},
		{"host case differs", "https://GitHub.com/login/oauth/authorize?x=1", nil},
		{"other host", "https://evil.example/login/oauth/authorize", shared.ErrUntrustedURL},
		{"lookalike host", "https://github.com.evil.example/login/oauth/authorize", shared.ErrUntrustedURL},
		{"downgraded scheme", "http://github.com/login/oauth/authorize", shared.ErrUntrustedURL},
		{"other path", "https://github.com/logout", shared.ErrUntrustedURL},
		{"relative", "/login/oauth/authorize", shared.ErrUntrustedURL},
		{"javascript", "javascript:alert(1)", shared.ErrUntrustedURL},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyRedirect(tt.target, authorize)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	var navigated []string
	a := NewAddress(nil, func(target string) error {
		navigated = append(navigated, target)
		return nil
	})

	if got := a.URL().String(); got != "" {
		t.Errorf("expected empty address, got %s", got)
	}

	u := a.URL()
	u.Path = "/mutated"
	if a.URL().Path == "/mutated" {
		t.Error("URL() must return a copy")
	}

	if err := a.Assign("https://github.com/login/oauth/authorize"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if a.Assigned() != "https://github.com/login/oauth/authorize" || len(navigated) != 1 {
		t.Errorf("expected navigation to be recorded, got %q %v", a.Assigned(), navigated)
	}

	failing := NewAddress(nil, func(string) error { return errors.New("no browser") })
	if err := failing.Assign("https://example.com"); err == nil {
		t.Error("expected navigation error")
	}
	if failing.Assigned() != "" {
		t.Error("failed navigation should not be recorded")
	}

	if a.Reloaded() {
		t.Error("expected no reload yet")
	}
	a.Reload()
	if !a.Reloaded() {
		t.Error("expected reload to be recorded")
	}
}
