// Package geometry provides the axis-aligned primitives used by scene
// resolution: 3D vectors, bounding boxes, 2D footprint rectangles, and
// object transforms.
//
// All quantities are float32 centimeters, matching the engine's units.
// Axes follow the engine convention: X is width, Y is depth, Z is height
// (up). Rotation is yaw in degrees about the Z axis.
//
// Overlap checks use a small tolerance so that boxes sharing a face (an
// object flush against another, or resting on top of it) do not count as
// intersecting.
package geometry
