// Package server exposes the pipeline services as a JSON HTTP API.
//
// Routes live under /api/v1 with a /health probe at the root. Service error
// markers map onto status codes: validation failures return 400, missing
// entities 404, duplicates and lost races 409, and anything else 500.
package server
