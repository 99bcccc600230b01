// Package auth is the session and synchronization controller.
//
// A [Page] models one load of the client. [Page.Load] reads the session marker from the jar and
// the redirect parameters from the [Location] exactly once, picks a [State] with [Evaluate] and
// runs that state's entry actions:
//
//   - [Anonymous] : show the login prompt and bind Login, which fetches the provider URL from
//     the backend, checks it targets the configured authorize endpoint and navigates to it
//   - [OAuthPending] : exchange code and state once, strip them from the address, then either
//     write the session marker and continue as authenticated or fall back to the login prompt
//   - [Authenticated] : show the list, fetch the user, bind Logout and the item actions, list
//
// Every load ends with a presence count refresh.
//
// Handlers reach the [View] through [View.Bind], called once per load, so no handler from an
// earlier state can survive. Handler failures are logged, reported to the view and returned.
//
// Logout is best-effort remotely and unconditional locally: the server call is attempted while
// the session token is still in the jar, then both cookies are expired and the location reloads.
package auth
