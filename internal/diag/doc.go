// Package diag is the thin boundary to the display/diagnostic subsystem
// spec.md §1 calls out as an external collaborator: position/range
// rendering, color schemes, and terminal output are someone else's
// concern. This package defines only the shape every phase hands to that
// collaborator — an Error with a position, optional sub-range, message,
// and chained notes — plus a Log that accumulates errors across a phase
// without aborting, per spec.md §7's propagation policy.
package diag
