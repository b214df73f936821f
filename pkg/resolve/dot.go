package resolve

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/roomsmith/roomsmith/pkg/scene"
)

// ToDOT converts a scene's anchor graph to Graphviz DOT format. Rooms
// become clusters, objects become nodes, and anchors become edges from
// the target to the dependent, labeled with the relation. The resulting
// string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph anchors {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for i, room := range s.Rooms {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", room.ID)
		buf.WriteString("    style=dashed;\n")
		for _, o := range s.ObjectsInRoom(room.ID) {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", o.ID, o.ID+"\n"+o.Type)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, id := range s.ObjectIDs() {
		o, _ := s.Object(id)
		switch o.Anchor.Kind {
		case scene.AnchorObject:
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", o.Anchor.Target, o.ID, o.Anchor.Relation)
		case scene.AnchorRoom:
			label := string(o.Anchor.Relation)
			if o.Anchor.Feature != "" {
				label += " " + o.Anchor.Feature
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dotted];\n", o.Room, o.ID, label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
