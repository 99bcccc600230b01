// Package session owns the client-held cookie store and the single read of the session marker.
//
// # Session Marker
//
// The session is never stored as an object. It is the pair of cookies written after a successful
// OAuth exchange: the opaque, HttpOnly [TokenName] issued by the backend and the script-visible
// [MarkerName] written by the client. [Detect] parses a cookie string and is the only place the
// marker is interpreted; [Jar.Marker] feeds it the jar's script-visible view.
//
// # Cookie Jar
//
// [Jar] implements [net/http.CookieJar] so the REST client forwards the session token without
// ever handling it. Entries persist through a [CookieStore]: [MemoryStore] for tests and
// repositories.CookieRepository for the SQLite-backed store used by the CLI.
package session
