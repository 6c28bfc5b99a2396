// Package middleware groups the HTTP middleware registered by the start command.
//
// # Components
//
//   - rayid: tags every request with a ray id (X-Ray-ID) stored in fiber locals
//     and echoed on the response, so log entries for one request correlate.
//   - auth: rejects requests that do not carry the configured API key.
//
// rayid is registered first so that even rejected requests are traceable.
package middleware
