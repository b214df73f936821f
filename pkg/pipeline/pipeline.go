// Package pipeline wires the full build together: describe → validate →
// resolve → plan → apply.
//
// Both the CLI and the HTTP server run builds through the same [Runner],
// so behavior (store read-once/write-once, pinning, dry runs) cannot
// drift between the two surfaces.
//
// Usage:
//
//	runner := pipeline.NewRunner(client, layoutStore, binding, logger)
//	result, err := runner.Build(ctx, pipeline.Options{Prompt: "a loft with..."})
package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/plan"
	"github.com/roomsmith/roomsmith/pkg/resolve"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// Stage names, as reported to observability hooks.
const (
	StageDescribe = "describe"
	StageEnrich   = "enrich"
	StageValidate = "validate"
	StageResolve  = "resolve"
	StagePlan     = "plan"
	StageApply    = "apply"
)

// Options configure a single build.
type Options struct {
	// Prompt is a natural-language description, translated through the
	// text-understanding service. Mutually exclusive with ScenePath.
	Prompt string `json:"prompt,omitempty"`

	// ScenePath is a JSON or YAML scene file. Mutually exclusive with
	// Prompt.
	ScenePath string `json:"scene_path,omitempty"`

	// Defaults override the built-in size tables; nil uses the built-ins.
	Defaults *scene.Defaults `json:"-"`

	// Pin keeps the stored transform of every object that still fits,
	// instead of re-placing the whole scene.
	Pin bool `json:"pin,omitempty"`

	// Apply drives the engine binding with the computed plan. Without it
	// the build is a dry run: plan computed, nothing applied, nothing
	// persisted.
	Apply bool `json:"apply,omitempty"`
}

// Validate checks that the options describe a runnable build.
func (o *Options) Validate() error {
	if o.Prompt == "" && o.ScenePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "either a prompt or a scene file is required")
	}
	if o.Prompt != "" && o.ScenePath != "" {
		return errors.New(errors.ErrCodeInvalidInput, "a prompt and a scene file are mutually exclusive")
	}
	return nil
}

// Result carries every artifact of a build.
type Result struct {
	Scene  *scene.Scene
	Layout *resolve.Layout
	Plan   *plan.UpdatePlan
	Stats  Stats
}

// Stats holds timing and size information for a build.
type Stats struct {
	Rooms   int `json:"rooms"`
	Objects int `json:"objects"`

	DescribeTime time.Duration `json:"describe_time"`
	ResolveTime  time.Duration `json:"resolve_time"`
	PlanTime     time.Duration `json:"plan_time"`
	ApplyTime    time.Duration `json:"apply_time"`
}

// LoadSceneFile decodes a scene from a JSON or YAML file, picking the
// codec by extension, and enriches it with derived doorways and per-room
// lighting.
func LoadSceneFile(path string, d *scene.Defaults) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "read scene file")
	}
	var s *scene.Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = scene.ParseYAML(data, d)
	default:
		s, err = scene.ParseJSON(data, d)
	}
	if err != nil {
		return nil, err
	}
	scene.Enrich(s, d)
	return s, nil
}
