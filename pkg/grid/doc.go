// Package grid implements the layout engine for gridboard pages.
//
// A page is a [Layout]: an ordered set of [Block] values placed on a
// 12-column grid with fixed-height rows. Blocks are either text (markdown
// source) or images (a URL); the engine treats content as opaque.
//
// # Coordinates
//
// A block is anchored at [Position] {X, Y}, where X is the first column it
// covers (0-indexed) and Y is its row. It spans Width columns, so on row Y it
// occupies the half-open interval [X, X+Width). Every reachable block
// satisfies
//
//	1 <= Width <= 12
//	X >= 0, Y >= 0
//	X + Width <= 12
//
// and intervals of blocks sharing a row never overlap.
//
// # Operations
//
//   - [NextPosition]: greedy append slot for a new block
//   - [Grid.Reorder]: drag-and-drop move with swap-on-collision
//   - [Grid.BeginResize]: edge-drag resize driven by pixel deltas
//
// All operations are pure: they return new Layout values and never mutate
// their input, so a Layout can be handed to history or to renderers as an
// immutable snapshot.
//
// # Pixel Conversion
//
// Drag events arrive in pixels. [Grid] carries the conversion constants:
// the row height (80px by default) and the resize step (100px per column).
// Column width is derived from the container width reported by the caller.
package grid
