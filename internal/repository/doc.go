// Package repository defines the data access interfaces for modcanvas.
//
// Live canvas state is held in memory by the canvas store. This package
// covers what outlives a process: named snapshots of the canvas document.
// The implementation is in the sqlite subpackage.
//
// # SQLite Implementation
//
// The sqlite implementation stores each snapshot as one row with the
// document serialised to JSON and node/edge counts kept in indexed columns
// for listing. It runs on the pure Go modernc.org/sqlite driver with WAL
// mode, and migrates its schema on open.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
