// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration: the listen
// port, the API key checked by the auth middleware, and the request body limit that
// bounds uploaded comparison requests.
package server
