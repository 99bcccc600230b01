// Package server receives the GitHub redirect that ends a browser login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] serves the client page path (by default /callback on localhost:3000). It accepts a
// single request, captures code and state (or the provider's error and error_description) and sends the
// result through a channel. The CLI turns that result into a new page load whose address carries the
// parameters, so the controller performs the exchange exactly as it would after a browser redirect.
//
// [Listen] starts the receiver in the background and [Logging] records each request without its query.
package server
