// Utilities for parsing cURL commands copied from browser DevTools.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	headerRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	cookieRegex = regexp.MustCompile(`(?:-b|--cookie)\s+'([^']+)'|(?:-b|--cookie)\s+"([^"]+)"`)
	urlRegex    = regexp.MustCompile(`curl\s+(?:--location\s+)?'(https?://[^']+)'|curl\s+(?:--location\s+)?"(https?://[^"]+)"|(https?://[^\s'"]+)`)
)

// CurlRequest is the request target, headers and cookie string of a cURL command.
type CurlRequest struct {
	URL     string
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts the request.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string.
//
// The cookie string comes from -b/--cookie when present, else from a Cookie header.
func ParseCurlCommand(curlCmd string) (*CurlRequest, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	req := &CurlRequest{Headers: make(map[string]string)}

	if m := urlRegex.FindStringSubmatch(curlCmd); m != nil {
		req.URL = firstNonEmpty(m[1:]...)
	}

	var headerCookie string
	for _, m := range headerRegex.FindAllStringSubmatch(curlCmd, -1) {
		key, value, ok := strings.Cut(firstNonEmpty(m[1:]...), ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		req.Headers[key] = value
	}

	if m := cookieRegex.FindStringSubmatch(curlCmd); m != nil {
		req.Cookie = firstNonEmpty(m[1:]...)
	} else {
		req.Cookie = headerCookie
	}

	if req.URL == "" {
		return nil, fmt.Errorf("%w: no URL found in curl command", ErrInvalidArgument)
	}
	if req.Cookie == "" {
		return nil, fmt.Errorf("%w: no cookies found in curl command", ErrInvalidArgument)
	}
	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
