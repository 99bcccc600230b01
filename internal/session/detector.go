package session

import "strings"

// MarkerName is the client-visible cookie that flags an authenticated session.
const MarkerName = "loggedin"

// TokenName is the opaque server-issued session cookie. The client forwards it and never reads it.
const TokenName = "sessionid"

// Marker is the value of the session marker cookie.
type Marker struct {
	Value string
}

// Pair is one name=value entry of a cookie string.
type Pair struct {
	Name  string
	Value string
}

// Pairs splits a "name=value; name2=value2" cookie string.
//
// Entries without a name are skipped; an entry without "=" has an empty value.
func Pairs(cookies string) []Pair {
	var pairs []Pair
	for _, part := range strings.Split(cookies, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Value: strings.TrimSpace(value)})
	}
	return pairs
}

// Detect reports the session marker carried by a cookie string.
//
// Returns false for empty, malformed or marker-free input.
func Detect(cookies string) (Marker, bool) {
	for _, p := range Pairs(cookies) {
		if p.Name == MarkerName {
			return Marker{Value: p.Value}, true
		}
	}
	return Marker{}, false
}
