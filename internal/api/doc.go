// Package api is the service layer between the HTTP/CLI surfaces and the
// store: validation, the script approval boundary, task transitions, and the
// ideation persistence flow. Errors carry services markers so callers can map
// them to status codes.
package api
