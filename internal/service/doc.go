// Package service implements the application layer of modcanvas.
//
// CanvasService sits between the HTTP handlers and the canvas store. It
// resolves template keys against the catalog, routes pointer events through
// the gesture controller and persists snapshots through the repository.
//
// # Event System
//
// After every state-mutating operation the service republishes the full
// canvas view-model on the EventBus. The handler bridges the bus to the SSE
// hub so every connected client redraws from the same state.
package service
