// Package handler implements HTTP request handlers for the adaptkit API.
//
// # Handlers
//
// RunHandler exposes the adapter registry and the extraction service:
//
//	GET  /api/adapters            registered adapters, registration order
//	GET  /api/kinds/{kind}/owner  adapter that owns an element kind
//	POST /api/resolve             applicable adapters for a YAML model body
//	POST /api/runs                extract a YAML model body, store and return the report
//	GET  /api/runs?limit=N        stored run summaries, newest first
//	GET  /api/runs/{id}           stored report (?format=yaml for YAML)
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /events endpoint is served by the hub package and streams run events
// published on the service EventBus.
package handler
