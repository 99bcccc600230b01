package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name       string
		curlCmd    string
		wantURL    string
		wantCookie string
		wantHeader map[string]string
		wantErr    bool
	}{
		{
			name:       "cookie in -b flag with single quotes",
			curlCmd:    `curl 'https://api.todo.example.dev/todo/' -b 'sessionid=abc; loggedin=true'`,
			wantURL:    "https://api.todo.example.dev/todo/",
			wantCookie: "sessionid=abc; loggedin=true",
		},
		{
			name:       "cookie in -b flag with double quotes",
			curlCmd:    `curl "https://api.todo.example.dev/todo/" -b "sessionid=abc"`,
			wantURL:    "https://api.todo.example.dev/todo/",
			wantCookie: "sessionid=abc",
		},
		{
			name:       "cookie in header",
			curlCmd:    `curl 'https://api.todo.example.dev/user/' -H 'accept: */*' -H 'Cookie: sessionid=abc; loggedin=true'`,
			wantURL:    "https://api.todo.example.dev/user/",
			wantCookie: "sessionid=abc; loggedin=true",
			wantHeader: map[string]string{"accept": "*/*"},
		},
		{
			name:       "-b cookie takes precedence over -H cookie",
			curlCmd:    `curl 'https://api.todo.example.dev/' -H 'Cookie: old=value' -b 'new=value'`,
			wantURL:    "https://api.todo.example.dev/",
			wantCookie: "new=value",
		},
		{
			name: "multiline command with backslashes",
			curlCmd: `curl 'https://api.todo.example.dev/todo/' \
  -H 'accept-language: en-US,en;q=0.9' \
  -b 'sessionid=abc'`,
			wantURL:    "https://api.todo.example.dev/todo/",
			wantCookie: "sessionid=abc",
			wantHeader: map[string]string{"accept-language": "en-US,en;q=0.9"},
		},
		{
			name:       "unquoted url",
			curlCmd:    `curl http://localhost:8080/todo/ -b 'sessionid=abc'`,
			wantURL:    "http://localhost:8080/todo/",
			wantCookie: "sessionid=abc",
		},
		{
			name:    "no cookies",
			curlCmd: `curl 'https://api.todo.example.dev/' -H 'accept: */*'`,
			wantErr: true,
		},
		{
			name:    "no url",
			curlCmd: `curl -b 'sessionid=abc'`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCurlCommand(tc.curlCmd)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}

			if got.URL != tc.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tc.wantURL)
			}
			if got.Cookie != tc.wantCookie {
				t.Errorf("Cookie = %q, want %q", got.Cookie, tc.wantCookie)
			}
			for key, want := range tc.wantHeader {
				if got.Headers[key] != want {
					t.Errorf("header[%s] = %q, want %q", key, got.Headers[key], want)
				}
			}
			if _, ok := got.Headers["Cookie"]; ok {
				t.Error("cookie header should not be kept as a regular header")
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")
		curlCmd := `curl 'https://api.todo.example.dev/todo/' -b 'sessionid=abc; loggedin=true'`
		if err := os.WriteFile(curlFile, []byte(curlCmd), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		got, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}
		if got.Cookie != "sessionid=abc; loggedin=true" {
			t.Errorf("unexpected cookie %q", got.Cookie)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("ParseCurlFile() expected error for nonexistent file")
		}
	})
}
