package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roomsmith/roomsmith/pkg/resolve"
)

const testScene = `{
	"rooms": [{"id": "bedroom", "type": "bedroom"}],
	"objects": [
		{"id": "bed_1", "type": "bed", "room": "bedroom",
		 "anchor": {"kind": "room", "relation": "against_wall"}},
		{"id": "lamp_1", "type": "lamp", "room": "bedroom",
		 "anchor": {"kind": "object", "relation": "on", "target": "bed_1"}}
	]
}`

func writeTestScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns the error.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newTestCLI().RootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestValidateCommand(t *testing.T) {
	if err := execute(t, "validate", writeTestScene(t)); err != nil {
		t.Errorf("validate error = %v", err)
	}
}

func TestValidateCommandBadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	bad := `{"rooms": [{"id": "bedroom", "type": "bedroom"}],
		"objects": [{"id": "lamp_1", "type": "lamp", "room": "bedroom",
			"anchor": {"kind": "object", "relation": "on", "target": "ghost"}}]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "validate", path); err == nil {
		t.Error("validate should fail on a dangling anchor target")
	}
}

func TestResolveCommand(t *testing.T) {
	scenePath := writeTestScene(t)
	outPath := filepath.Join(t.TempDir(), "layout.json")

	if err := execute(t, "resolve", scenePath, "-o", outPath); err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var layout resolve.Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		t.Fatalf("layout output is not valid JSON: %v", err)
	}
	// Bed, lamp, and the derived room light.
	if len(layout.Placements) != 3 {
		t.Errorf("placements = %d, want 3", len(layout.Placements))
	}
}

func TestResolveCommandDefaultOutput(t *testing.T) {
	scenePath := writeTestScene(t)

	if err := execute(t, "resolve", scenePath); err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	want := strings.TrimSuffix(scenePath, ".json") + ".layout.json"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestBuildCommandDryRun(t *testing.T) {
	scenePath := writeTestScene(t)
	storePath := filepath.Join(t.TempDir(), "layout.json")
	planPath := filepath.Join(t.TempDir(), "plan.json")

	err := execute(t, "build", "--scene", scenePath, "--store", storePath, "-o", planPath)
	if err != nil {
		t.Fatalf("build error = %v", err)
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		t.Fatal(err)
	}
	var plan struct {
		PlanID string `json:"plan_id"`
		Create []json.RawMessage
	}
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("plan output is not valid JSON: %v", err)
	}
	if plan.PlanID == "" {
		t.Error("plan id should be set")
	}
	if len(plan.Create) != 3 {
		t.Errorf("creates = %d, want 3", len(plan.Create))
	}

	// Dry runs never persist.
	if _, err := os.Stat(storePath); err == nil {
		t.Error("dry run should not write the store")
	}
}

func TestPlanCommand(t *testing.T) {
	scenePath := writeTestScene(t)
	storePath := filepath.Join(t.TempDir(), "layout.json")
	planPath := filepath.Join(t.TempDir(), "plan.json")

	err := execute(t, "plan", scenePath, "--store", storePath, "-o", planPath)
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		t.Fatal(err)
	}
	var plan struct {
		Create []json.RawMessage
	}
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("plan output is not valid JSON: %v", err)
	}
	if len(plan.Create) != 3 {
		t.Errorf("creates = %d, want 3", len(plan.Create))
	}

	// Planning never persists.
	if _, err := os.Stat(storePath); err == nil {
		t.Error("plan should not write the store")
	}
}

func TestBuildCommandNeedsInput(t *testing.T) {
	if err := execute(t, "build"); err == nil {
		t.Error("build without a prompt or scene should fail")
	}
}

func TestGraphCommandDOT(t *testing.T) {
	scenePath := writeTestScene(t)
	outPath := filepath.Join(t.TempDir(), "anchors.dot")

	if err := execute(t, "graph", scenePath, "-f", "dot", "-o", outPath); err != nil {
		t.Fatalf("graph error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.Contains(dot, "digraph") || !strings.Contains(dot, "lamp_1") {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
}

func TestGraphCommandUnknownFormat(t *testing.T) {
	if err := execute(t, "graph", writeTestScene(t), "-f", "gif"); err == nil {
		t.Error("graph should reject unknown formats")
	}
}

func TestStoreShowEmpty(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "layout.json")
	if err := execute(t, "store", "show", "--store", storePath); err != nil {
		t.Errorf("store show error = %v", err)
	}
}

func TestStoreClearThenShow(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "layout.json")

	if err := execute(t, "store", "clear", "--store", storePath); err != nil {
		t.Fatalf("store clear error = %v", err)
	}
	if err := execute(t, "store", "show", "--store", storePath); err != nil {
		t.Errorf("store show error = %v", err)
	}
}
