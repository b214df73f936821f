// Package resolve turns a validated scene into a concrete, collision-free
// layout.
//
// # Ordering
//
// Objects are processed in dependency order: an object anchored to another
// object is placed only after its target. Ordering is a Kahn traversal of
// the anchor graph with ties broken by ascending id, so the same scene
// always resolves in the same order.
//
// # Regions
//
// Each anchor maps to one or more candidate regions on the floor plane: a
// free object gets the room footprint inset by the wall margin, a wall
// anchor gets a strip along the chosen wall, and object anchors get the
// target's top face or clearance bands around its footprint.
//
// # Placement
//
// Within a region the placer scans a fixed grid from the region's minimum
// corner, X fastest then Y, and takes the first position whose bounding
// box stays inside the room and intersects nothing already placed. The
// scan is exhaustive and ordered, so resolution is deterministic: equal
// inputs produce byte-equal layouts.
package resolve
