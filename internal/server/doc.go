// Package server provides HTTP routing, middleware and the upload endpoint for the player web app.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps the whole router in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so unmatched methods get a 405 from the mux.
//
// # Routes
//
//	POST /api/upload  multipart field "audioFile", stored under the uploads directory
//	GET  /            static files from the build directory, index.html for anything else
//
// The upload endpoint performs no validation or deduplication: a file with an existing
// name replaces the previous one.
//
// # Middleware
//
//   - [RequestID] : tags each request with an X-Request-ID
//   - [Logging] : one structured log line per request
//   - [CORS] : allows one configured origin
//   - [RateLimit] : rejects requests over a token bucket with 429
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
