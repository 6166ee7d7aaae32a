// Package handler implements the HTTP API of modcanvas.
//
// CanvasHandler exposes the canvas view-model, module placement, pointer
// gestures, snapshots, import/export and a PNG preview. The /events endpoint
// is served by the hub package and streams the view-model after every
// mutation.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure. Unknown nodes,
// pointers and snapshots map to 404; unknown templates and invalid documents
// map to 400.
//
// # Middleware
//
// Chain composes Recover, CORS and Logger around the mux.
package handler
