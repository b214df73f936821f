package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/roomsmith/roomsmith/pkg/describe"
	"github.com/roomsmith/roomsmith/pkg/engine"
	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/observability"
	"github.com/roomsmith/roomsmith/pkg/plan"
	"github.com/roomsmith/roomsmith/pkg/resolve"
	"github.com/roomsmith/roomsmith/pkg/scene"
	"github.com/roomsmith/roomsmith/pkg/store"
)

// Runner executes builds. It is stateless between calls; the same Runner
// can serve concurrent builds as long as the store backend tolerates
// concurrent writers.
type Runner struct {
	Describer *describe.Client
	Store     store.Store
	Binding   engine.Binding
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil store disables persistence, a nil
// binding turns applies into recorded dry runs, and a nil logger falls
// back to log.Default. The describer may be nil when only scene files are
// built.
func NewRunner(d *describe.Client, s store.Store, b engine.Binding, logger *log.Logger) *Runner {
	if s == nil {
		s = store.NewNullStore()
	}
	if b == nil {
		b = engine.NewRecording()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Describer: d, Store: s, Binding: b, Logger: logger}
}

// Build runs the full pipeline for the given options.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	s, describeTime, err := r.loadScene(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = s
	result.Stats.DescribeTime = describeTime

	var doors, lights int
	_ = r.stage(ctx, StageEnrich, func() error {
		doors, lights = scene.Enrich(s, opts.Defaults)
		return nil
	})
	if doors > 0 || lights > 0 {
		r.Logger.Info("scene enriched", "doorways", doors, "lights", lights)
	}
	result.Stats.Rooms = len(s.Rooms)
	result.Stats.Objects = len(s.Objects)

	if err := r.stage(ctx, StageValidate, func() error {
		return scene.Validate(s)
	}); err != nil {
		return nil, err
	}
	r.Logger.Info("scene validated", "rooms", len(s.Rooms), "objects", len(s.Objects))

	// One read before resolving; the prior transforms feed both pinning
	// and the diff.
	prior, err := r.Store.Load(ctx)
	observability.Store().OnLoad(ctx, storeName(r.Store), len(prior), err)
	if err != nil {
		return nil, err
	}

	resolveOpts := resolve.Options{Defaults: opts.Defaults, Logger: r.Logger}
	if opts.Pin {
		resolveOpts.Pinned = prior
	}

	start := time.Now()
	var layout *resolve.Layout
	if err := r.stage(ctx, StageResolve, func() error {
		layout, err = resolve.Resolve(ctx, s, resolveOpts)
		return err
	}); err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.ResolveTime = time.Since(start)
	r.Logger.Info("layout resolved",
		"placements", len(layout.Placements),
		"warnings", len(layout.Warnings),
		"duration", result.Stats.ResolveTime)

	start = time.Now()
	var p *plan.UpdatePlan
	_ = r.stage(ctx, StagePlan, func() error {
		p = plan.Diff(prior, layout)
		return nil
	})
	result.Plan = p
	result.Stats.PlanTime = time.Since(start)

	create, move, unchanged, remove := p.Counts()
	observability.Build().OnPlanComputed(ctx, p.PlanID, create, move, unchanged, remove)
	r.Logger.Info("plan computed",
		"plan", p.PlanID,
		"create", create, "move", move, "unchanged", unchanged, "remove", remove)

	if !opts.Apply {
		return result, nil
	}

	start = time.Now()
	if err := r.stage(ctx, StageApply, func() error {
		return r.Binding.Apply(ctx, p)
	}); err != nil {
		return nil, err
	}
	result.Stats.ApplyTime = time.Since(start)

	// One write, and only after the engine accepted the plan.
	transforms := layout.Transforms()
	err = r.Store.Save(ctx, transforms)
	observability.Store().OnSave(ctx, storeName(r.Store), len(transforms), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("layout persisted", "objects", len(transforms))

	return result, nil
}

// loadScene produces the scene either from the text-understanding
// service or from a file.
func (r *Runner) loadScene(ctx context.Context, opts Options) (*scene.Scene, time.Duration, error) {
	if opts.ScenePath != "" {
		s, err := LoadSceneFile(opts.ScenePath, opts.Defaults)
		return s, 0, err
	}

	if r.Describer == nil {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput,
			"prompts need a text-understanding client, build from a scene file instead")
	}

	start := time.Now()
	var s *scene.Scene
	err := r.stage(ctx, StageDescribe, func() error {
		var err error
		s, err = r.Describer.Describe(ctx, opts.Prompt, opts.Defaults)
		return err
	})
	return s, time.Since(start), err
}

// stage wraps a pipeline step with observability events.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	observability.Build().OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	observability.Build().OnStageComplete(ctx, name, time.Since(start), err)
	return err
}

func storeName(s store.Store) string {
	switch s.(type) {
	case *store.FileStore:
		return "file"
	case *store.SQLiteStore:
		return "sqlite"
	case *store.RedisStore:
		return "redis"
	case *store.MongoStore:
		return "mongo"
	default:
		return "null"
	}
}
