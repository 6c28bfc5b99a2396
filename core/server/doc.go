// Package server holds the HTTP server configuration.
//
// The start command reads the listen port, the API key protecting every route
// and the per-request timeout from here.
package server
