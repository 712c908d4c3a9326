// Package frame runs one editor tick: it drains the config mailbox,
// applies widget edits, performs structural keyframe changes and renders
// at most once.
package frame

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/ifs-editor/internal/bridge"
	"github.com/iburimskiy/ifs-editor/internal/config"
	"github.com/iburimskiy/ifs-editor/internal/logger"
	"github.com/iburimskiy/ifs-editor/internal/metrics"
	"github.com/iburimskiy/ifs-editor/internal/render"
	"github.com/iburimskiy/ifs-editor/internal/transform"
)

// Setting names one generation slider.
type Setting int

const (
	SettingWidth Setting = iota
	SettingHeight
	SettingPoints
	SettingIterations
	SettingFrame
)

func (s Setting) String() string {
	switch s {
	case SettingWidth:
		return "Width"
	case SettingHeight:
		return "Height"
	case SettingPoints:
		return "Points"
	case SettingIterations:
		return "Iterations"
	case SettingFrame:
		return "Frame"
	}
	return "?"
}

// SettingEdit is one slider change reported this tick.
type SettingEdit struct {
	Setting Setting
	Value   int
}

// EditResult is what a transform widget reports for one transform.
type EditResult struct {
	// Variant replaces the transform when Changed is set.
	Variant transform.Variant
	Changed bool
	Delete  bool
}

// TransformEditor is invoked for every transform of keyframe 0, in order.
type TransformEditor func(index int, v transform.Variant) EditResult

// Input collects the user's interaction for one tick.
type Input struct {
	Settings  []SettingEdit
	Editor    TransformEditor
	Randomize bool
	// Add appends a default transform of this kind to every keyframe.
	Add    transform.Kind
	Load   bool
	Save   bool
	Export bool
}

// TargetPolicy decides what keyframe 1 becomes after loading a config
// without target_transforms.
type TargetPolicy int

const (
	// TargetCopy duplicates the loaded transforms.
	TargetCopy TargetPolicy = iota
	// TargetPreset resets keyframe 1 to DefaultIFS, realigned to the loaded length.
	TargetPreset
)

// ParseTargetPolicy maps a flag value to a policy.
func ParseTargetPolicy(name string) (TargetPolicy, error) {
	switch name {
	case "copy":
		return TargetCopy, nil
	case "preset":
		return TargetPreset, nil
	}
	return TargetCopy, fmt.Errorf("unknown target policy %q", name)
}

type Options struct {
	TargetPolicy TargetPolicy
	// RandomizeTarget makes "randomize" resample every keyframe instead
	// of keyframe 0 only.
	RandomizeTarget bool
	// Seed seeds randomize and the parameters of added transforms.
	Seed uint64
}

type Controller struct {
	engine render.Engine
	bridge *bridge.Bridge
	opts   Options
	rng    *rand.Rand
}

func NewController(engine render.Engine, b *bridge.Bridge, opts Options) *Controller {
	return &Controller{
		engine: engine,
		bridge: b,
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
}

// Tick drains the bridge, applies widget edits, performs structural
// actions and renders at most once. Widget edits are dropped when the
// drain replaced the keyframes. Failures are recorded on the session; the
// previous keyframes and raster stay in place.
func (c *Controller) Tick(ctx context.Context, s *Session, in Input) {
	if c.drain(s) {
		// The widgets saw the keyframes that were just replaced.
		in.Editor = nil
	}
	c.applyEdits(s, in)
	c.applyStructural(ctx, s, in)
	c.maybeRender(ctx, s)
}

// Apply installs a loaded config as if it had arrived through the mailbox.
func (c *Controller) Apply(s *Session, cfg *config.Config) {
	c.applyConfig(s, cfg)
}

// drain applies queued bridge events and a pending config. It reports
// whether a config replaced the keyframes.
func (c *Controller) drain(s *Session) bool {
	for _, ev := range c.bridge.Events() {
		c.applyEvent(s, ev)
	}
	cfg, err := c.bridge.Poll()
	if err != nil {
		c.fail(s, "load", err)
		return false
	}
	if cfg == nil {
		return false
	}
	c.applyConfig(s, cfg)
	return true
}

func (c *Controller) applyEvent(s *Session, ev bridge.Event) {
	if ev.Err != nil {
		c.fail(s, ev.Label, ev.Err)
		return
	}
	if ev.Op != bridge.OpSave {
		return
	}
	switch ev.Label {
	case "config":
		s.savedSum = ev.Sum
		c.status(s, "saved "+ev.Path)
	default:
		c.status(s, "exported "+ev.Path)
	}
}

func (c *Controller) applyConfig(s *Session, cfg *config.Config) {
	kf := s.keyframes
	_ = kf.ReplaceKeyframe(0, cfg.Transforms)
	for k := 1; k < kf.Len(); k++ {
		next := cfg.Transforms.Clone()
		switch {
		case k == 1 && cfg.Target != nil:
			next = cfg.Target
		case c.opts.TargetPolicy == TargetPreset:
			next = DefaultIFS()
		}
		_ = kf.ReplaceKeyframe(k, next)
	}
	if changed, _ := kf.Reconcile(0); changed {
		logger.Logger().Warn("target keyframe realigned to loaded transforms", "transforms", kf.Width())
	}

	s.Settings.Width = clampU32(cfg.Image.Width, config.MinDimension, config.MaxDimension)
	s.Settings.Height = clampU32(cfg.Image.Height, config.MinDimension, config.MaxDimension)
	s.Settings.Path = cfg.Image.Path
	s.Settings.NumPoints = clampU32(cfg.Evaluation.NumPoints, config.MinPoints, config.MaxPoints)
	s.Settings.NumIterations = clampU32(cfg.Evaluation.NumIterations, config.MinIterations, config.MaxIterations)
	s.Settings.Frame = min(s.Settings.Frame, kf.TotalFrames())
	if uint64(s.Settings.Width) != uint64(cfg.Image.Width) || uint64(s.Settings.Height) != uint64(cfg.Image.Height) ||
		uint64(s.Settings.NumPoints) != uint64(cfg.Evaluation.NumPoints) ||
		uint64(s.Settings.NumIterations) != uint64(cfg.Evaluation.NumIterations) {
		logger.Logger().Warn("loaded settings clamped to editor limits",
			"width", s.Settings.Width, "height", s.Settings.Height,
			"points", s.Settings.NumPoints, "iterations", s.Settings.NumIterations)
	}

	s.savedSum = s.fingerprint()
	s.dirty.Force()
	c.status(s, fmt.Sprintf("loaded %d transforms", kf.Width()))
}

func (c *Controller) applyEdits(s *Session, in Input) {
	for _, e := range in.Settings {
		c.applySetting(s, e)
		s.dirty.Force()
	}
	if in.Editor == nil {
		return
	}
	kf0, _ := s.keyframes.Keyframe(0)
	for i, v := range kf0.All() {
		res := in.Editor(i, v)
		if res.Changed && res.Variant != nil {
			if err := s.keyframes.SetVariant(0, i, res.Variant); err != nil {
				logger.Logger().Warn("transform edit rejected", "index", i, "err", err)
			}
		}
		s.dirty.Report(i, res.Changed, res.Delete)
	}
}

func (c *Controller) applySetting(s *Session, e SettingEdit) {
	switch e.Setting {
	case SettingWidth:
		s.Settings.Width = clamp(e.Value, config.MinDimension, config.MaxDimension)
	case SettingHeight:
		s.Settings.Height = clamp(e.Value, config.MinDimension, config.MaxDimension)
	case SettingPoints:
		s.Settings.NumPoints = clamp(e.Value, config.MinPoints, config.MaxPoints)
	case SettingIterations:
		s.Settings.NumIterations = clamp(e.Value, config.MinIterations, config.MaxIterations)
	case SettingFrame:
		s.Settings.Frame = clamp(e.Value, 0, s.keyframes.TotalFrames())
	}
}

func (c *Controller) applyStructural(ctx context.Context, s *Session, in Input) {
	kf := s.keyframes
	if in.Randomize {
		targets := 1
		if c.opts.RandomizeTarget {
			targets = kf.Len()
		}
		var err error
		for k := 0; k < targets && err == nil; k++ {
			err = kf.RandomizeKeyframe(k, c.rng)
		}
		metrics.StructuralOps.WithLabelValues("randomize", metrics.Result(err)).Inc()
		s.dirty.Force()
	}

	if in.Add != transform.KindNone {
		kf.AddToAll(transform.Default(in.Add))
		metrics.StructuralOps.WithLabelValues("add", "ok").Inc()
		s.dirty.Force()
	}

	if i, ok := s.dirty.TakeDelete(); ok {
		err := kf.DeleteFromAll(i)
		metrics.StructuralOps.WithLabelValues("delete", metrics.Result(err)).Inc()
		if err == nil {
			s.dirty.Force()
		} else {
			logger.Logger().Debug("delete ignored", "index", i, "err", err)
		}
	}

	if in.Load {
		cfg, err := c.bridge.RequestLoad(ctx)
		switch {
		case err != nil:
			c.fail(s, "load", err)
		case cfg != nil:
			c.applyConfig(s, cfg)
		case c.bridge.Mode() == bridge.Deferred:
			c.status(s, "waiting for config file")
		}
	}

	if in.Save {
		payload, err := s.Payload()
		if err == nil {
			err = c.bridge.RequestSave(ctx, "config", bridge.ConfigDialog, payload)
		}
		if err != nil {
			c.fail(s, "save", err)
		}
	}

	if in.Export && s.Raster != nil {
		png, err := s.Raster.PNG()
		if err == nil {
			d := bridge.ExportDialog
			if s.Settings.Path != "" {
				d.Filename = s.Settings.Path
			}
			err = c.bridge.RequestSave(ctx, "export", d, png)
		}
		if err != nil {
			c.fail(s, "export", err)
		}
	}
}

func (c *Controller) maybeRender(ctx context.Context, s *Session) {
	if !s.dirty.Consume() {
		return
	}
	p := s.Settings.Params()
	start := time.Now()
	r, err := c.engine.Render(ctx, s.keyframes, p)
	if err != nil {
		c.fail(s, "render", err)
		return
	}
	s.LastRender = time.Since(start)
	s.Raster = r
	s.Renders++
	metrics.Renders.Inc()
	metrics.RenderDuration.Observe(s.LastRender.Seconds())
	logger.Logger().Debug("rendered",
		"width", p.Width, "height", p.Height,
		"points", p.NumPoints, "iterations", p.NumIterations,
		"frame", p.Frame, "save_scale", render.SaveScale(p),
		"took", s.LastRender)
}

func (c *Controller) status(s *Session, msg string) {
	s.Status = msg
	s.LastErr = nil
}

func (c *Controller) fail(s *Session, op string, err error) {
	s.LastErr = fmt.Errorf("%s: %w", op, err)
	s.Status = ""
	switch {
	case errors.Is(err, config.ErrParse), errors.Is(err, bridge.ErrFileIO), errors.Is(err, bridge.ErrLoadInFlight):
		logger.Logger().Warn(op+" failed", "err", err)
	default:
		logger.Logger().Error(op+" failed", "err", err)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampU32(v uint32, lo, hi int) int {
	return int(max(uint32(lo), min(v, uint32(hi))))
}
