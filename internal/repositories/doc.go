// Package repositories implements SQLite persistence for the client.
//
// Key Implementations:
//   - [CookieRepository] : durable cookie jar storage so a session survives between runs
//
// Schema changes live in the shared package's embedded migrations and are applied by [shared.OpenStore].
package repositories
