// Package middleware groups the HTTP middleware of the Fiber application.
//
//   - auth: rejects requests without the configured X-API-Key.
//   - rayid: assigns each request a ray id, stored in the context and echoed in the
//     X-Ray-ID response header for log correlation.
//
// Register rayid first so every later log line carries the id.
package middleware
