package models

import (
	"net/url"
	"testing"
)

func TestRedirect(t *testing.T) {
	tc := []struct {
		name    string
		raw     string
		want    Redirect
		present bool
	}{
		{name: "both present", raw: "https://todo.example.dev/?code=abc&state=xyz", want: Redirect{"abc", "xyz"}, present: true},
		{name: "code only", raw: "https://todo.example.dev/?code=abc", want: Redirect{Code: "abc"}},
		{name: "state only", raw: "https://todo.example.dev/?state=xyz", want: Redirect{State: "xyz"}},
		{name: "blank values", raw: "https://todo.example.dev/?code=%20&state=", want: Redirect{}},
		{name: "none", raw: "https://todo.example.dev/", want: Redirect{}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("failed to parse url: %v", err)
			}

			got := RedirectFrom(u)
			if got != tt.want {
				t.Errorf("RedirectFrom() = %+v, want %+v", got, tt.want)
			}
			if got.Present() != tt.present {
				t.Errorf("Present() = %v, want %v", got.Present(), tt.present)
			}
		})
	}

	t.Run("nil url", func(t *testing.T) {
		if RedirectFrom(nil).Present() {
			t.Error("nil url should carry no redirect")
		}
	})
}

func TestStripRedirect(t *testing.T) {
	u, _ := url.Parse("https://todo.example.dev/app?code=abc&state=xyz&tab=open#top")

	got := StripRedirect(u)
	if got.String() != "https://todo.example.dev/app?tab=open#top" {
		t.Errorf("unexpected stripped url %s", got)
	}
	if u.Query().Get("code") != "abc" {
		t.Error("original url must not be modified")
	}

	bare, _ := url.Parse("https://todo.example.dev/?code=abc&state=xyz")
	if got := StripRedirect(bare).String(); got != "https://todo.example.dev/" {
		t.Errorf("expected bare page url, got %s", got)
	}
}

func TestUserAvatar(t *testing.T) {
	if _, ok := (User{ProfilePicture: false, ProfilePictureURL: "https://x"}).Avatar(); ok {
		t.Error("avatar should be hidden when profile_picture is false")
	}
	if url, ok := (User{ProfilePicture: true, ProfilePictureURL: "https://x"}).Avatar(); !ok || url != "https://x" {
		t.Errorf("expected avatar url, got %q %v", url, ok)
	}
}

func TestWithRedirect(t *testing.T) {
	page, _ := url.Parse("http://localhost:3000/callback?tab=open")

	got := WithRedirect(page, Redirect{Code: "c0de", State: "st&te"})
	if r := RedirectFrom(got); r.Code != "c0de" || r.State != "st&te" {
		t.Errorf("expected redirect to round trip through the query, got %+v", r)
	}
	if got.Query().Get("tab") != "open" {
		t.Error("expected other parameters to be kept")
	}
	if page.RawQuery != "tab=open" {
		t.Error("original url must not be modified")
	}
	if StripRedirect(got).String() != "http://localhost:3000/callback?tab=open" {
		t.Errorf("expected strip to undo the redirect, got %s", StripRedirect(got))
	}
}
