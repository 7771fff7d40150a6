// Package server exposes the api.Service over HTTP.
//
// Routes use method-qualified ServeMux patterns under /api. Every response
// carries an X-Request-ID header, echoing the caller's when supplied. When
// paths.api_token is set every route, /metrics included, requires
// "Authorization: Bearer <token>". Errors are JSON objects of the form
// {"error": "..."} with the status derived from the services error markers.
//
// A file lock next to the database keeps a second server from opening the
// same data directory.
package server
