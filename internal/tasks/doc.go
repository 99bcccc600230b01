// Package tasks keeps what the client shows consistent with the backend.
//
// # Todo Sync
//
// [TodoSync] wraps the item endpoints. Every accepted mutation is followed by exactly one list
// fetch, and only that fetch updates the rendered list:
//
//  1. [TodoSync.Add] : trims content, rejects blank input locally, POSTs, then lists
//  2. [TodoSync.Update] : PATCHes the done flag, then lists
//  3. [TodoSync.Delete] : DELETEs the item, then lists
//
// There are no optimistic updates. A failed request returns its error without rendering, so the
// previous list stays on screen. Callers report the error; nothing here retries.
//
// # Presence
//
// [PresenceCounter] fetches the public user count. It is best effort: failures are logged at warn
// level and never surface.
package tasks
