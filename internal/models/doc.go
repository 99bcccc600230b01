// Package models defines the values exchanged between the tdx client and the todo backend.
//
//   - [User] : the signed-in account, fetched fresh on every entry into the authenticated state
//   - [TodoItem] : one entry of the personal task list, identified by a server-assigned id
//   - [Redirect] : the code/state pair the OAuth provider appends to the page URL
//
// None of these are persisted client-side; the session itself lives only in the cookie jar.
package models
