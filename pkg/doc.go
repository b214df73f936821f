// Package pkg provides the core libraries for Roomsmith scene resolution.
//
// # Overview
//
// Roomsmith turns natural-language interior descriptions into scene graphs
// and resolves those graphs into collision-free 3D layouts. The pkg
// directory is organized into four main areas:
//
//  1. [scene] - Scene model (rooms, objects, anchors, size defaults)
//  2. [resolve] - Deterministic placement (ordering, regions, grid scan)
//  3. [plan] / [engine] - Update plans and the engine bridge that applies them
//  4. [pipeline] - Orchestration (describe → validate → resolve → plan → apply)
//
// # Architecture
//
// The typical data flow through Roomsmith:
//
//	Text prompt or scene file
//	         ↓
//	    [describe] package (prompt → scene graph)
//	         ↓
//	    [scene] package (decode, defaults, validation)
//	         ↓
//	    [resolve] package (dependency-ordered placement)
//	         ↓
//	    [plan] package (diff against the persisted layout)
//	         ↓
//	    [engine] package (create/move/remove in the running engine)
//
// # Quick Start
//
// Resolve a scene file and print the placements:
//
//	import (
//	    "context"
//	    "github.com/roomsmith/roomsmith/pkg/resolve"
//	    "github.com/roomsmith/roomsmith/pkg/scene"
//	)
//
//	// 1. Decode and validate
//	s, _ := scene.ParseJSON(data, scene.Builtin())
//	_ = scene.Validate(s)
//
//	// 2. Resolve to a layout
//	layout, _ := resolve.Resolve(context.Background(), s, resolve.Options{})
//
//	// 3. Inspect placements
//	for _, p := range layout.Placements {
//	    fmt.Println(p.ID, p.Transform.Position)
//	}
//
// # Main Packages
//
// ## Domain Logic
//
// [scene] - Scene model with JSON and YAML codecs, built-in size tables for
// common room and object types, identity derivation, and structural
// validation (duplicate ids, dangling references, anchor cycles, room
// overlap).
//
// [resolve] - Deterministic placement. Objects are placed in anchor
// dependency order; each anchor kind yields candidate regions that are
// scanned on a fixed grid, so the same scene always produces the same
// layout. Also renders anchor graphs via graphviz.
//
// [plan] - Diffs a resolved layout against previously persisted transforms
// into create/move/unchanged/remove operations.
//
// ## Infrastructure
//
// [store] - Layout persistence behind one interface: JSON file for CLI use,
// SQLite, Redis, and MongoDB for shared deployments, selected by URL.
//
// [describe] - OpenAI-compatible chat client that extracts scene graphs
// from prompts, with retry and a file-backed response cache.
//
// [engine] - REST bridge driving update plans into a running engine, plus a
// recording binding for dry runs and tests.
//
// ## Orchestration
//
// [pipeline] - The Runner shared by the CLI and the HTTP server. Enforces
// the store contract: one read before resolving, one write only after the
// engine accepts the plan.
package pkg
