// Package domain defines the core value types for the modcanvas module-graph editor.
//
// This package contains the entities placed on the canvas and the derived
// view-model pushed to rendering surfaces.
//
// # Core Types
//
// Template is an immutable module prototype (Linear, Conv2D, ReLU, Attention)
// carrying display metadata and the radius new nodes are created with.
//
// Node is a placed template instance with a top-left position, a fixed
// radius, a transient connectable flag and the ids of the nodes it is linked
// to. Connections are undirected and stored on both endpoints.
//
// Connection is one committed edge occurrence. Edges are append-only and may
// repeat between the same two nodes.
//
// Canvas is the view-model: nodes in insertion order plus the flattened edge
// list, recomputed after every state-mutating event.
//
// Document is the serialisable canvas state used by snapshots, import and
// export.
//
// # Geometry
//
// Point carries canvas coordinates. Distance math always runs on node
// centres (position + (radius, radius)), never on top-left corners.
//
// # Design Principles
//
// - Value types only, no infrastructure dependencies
// - Invariants are enforced by the canvas store; Document.Validate checks
//   them for state arriving from outside
package domain
