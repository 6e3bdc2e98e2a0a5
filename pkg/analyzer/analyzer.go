/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyzer.go
Description: The analysis engine facade. Validates the threshold policy up front,
measures inputs so progress can be reported against a known total, builds the raw
Type tree for each source, applies the merge pass, and folds multiple sources into
one shape. Run wraps the whole pipeline into a timestamped report with a unique id.
*/

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kleascm/shapely/pkg/config"
	"github.com/kleascm/shapely/pkg/logging"
	"github.com/kleascm/shapely/pkg/pattern"
	"github.com/kleascm/shapely/pkg/types"
	"github.com/kleascm/shapely/pkg/values"
)

// Analyzer infers the structural shape of semi-structured value trees
// under one threshold policy. Analyzer is safe for concurrent use as long
// as the progress sink is.
type Analyzer struct {
	policy   *config.Thresholds
	synth    *pattern.Synthesizer
	logger   *logging.Logger
	progress Progress
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger attaches a structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithProgress attaches a progress sink.
func WithProgress(p Progress) Option {
	return func(a *Analyzer) { a.progress = p }
}

// New validates the policy and builds an Analyzer. A nil policy means the
// defaults.
func New(policy *config.Thresholds, opts ...Option) (*Analyzer, error) {
	if policy == nil {
		policy = config.Default()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid threshold policy: %w", err)
	}
	a := &Analyzer{
		policy:   policy,
		synth:    pattern.NewSynthesizer(policy),
		progress: NopProgress{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Policy exposes the validated policy the Analyzer runs under.
func (a *Analyzer) Policy() *config.Thresholds {
	return a.policy
}

// Measure counts the value nodes of root, the unit the progress sink is
// reported in.
func (a *Analyzer) Measure(root values.Value) int {
	return values.Count(root)
}

// Analyze infers the shape of a single source: a build pass over the value
// tree followed by the merge pass. The context is checked between column
// builds; cancellation surfaces as the context's error.
func (a *Analyzer) Analyze(ctx context.Context, root values.Value) (*types.Type, error) {
	total := a.Measure(root)
	a.progress.Reset(total)
	a.logDebug("build pass starting", map[string]interface{}{"nodes": total})

	b := &builder{ctx: ctx, policy: a.policy, synth: a.synth, progress: a.progress}
	raw, err := b.build(root)
	if err != nil {
		return nil, err
	}

	// The merge pass walks the Type tree, a different population than the
	// value tree, so it gets its own bar.
	a.progress.Reset(typeNodeCount(raw))
	m := &merger{policy: a.policy, synth: a.synth, progress: a.progress}
	merged := m.run(raw)
	a.logDebug("merge pass done", nil)
	return merged, nil
}

// AnalyzeAll infers one shape across several sources: each source is
// analyzed on its own, then the per-source shapes are folded left to
// right. Shapes that cannot be reconciled degrade to the value fallback
// rather than failing.
func (a *Analyzer) AnalyzeAll(ctx context.Context, roots []values.Value) (*types.Type, error) {
	if len(roots) == 0 {
		return types.NewEmpty(), nil
	}
	shapes := make([]*types.Type, len(roots))
	for i, root := range roots {
		shape, err := a.Analyze(ctx, root)
		if err != nil {
			return nil, err
		}
		shapes[i] = shape
	}
	m := &merger{policy: a.policy, synth: a.synth}
	acc := shapes[0]
	for _, shape := range shapes[1:] {
		if merged, ok := m.mergePair(acc, shape); ok {
			acc = merged
			continue
		}
		a.logDebug("sources incompatible, degrading to value", nil)
		acc = types.NewValue(acc.Count() + shape.Count())
	}
	return acc, nil
}

// Report is the result of one full run.
type Report struct {
	ID       string
	Sources  int
	Shape    *types.Type
	Started  time.Time
	Finished time.Time
}

// Duration is the wall time the run took.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Run analyzes all sources and wraps the result in a report.
func (a *Analyzer) Run(ctx context.Context, roots []values.Value) (*Report, error) {
	report := &Report{
		ID:      uuid.New().String(),
		Sources: len(roots),
		Started: time.Now(),
	}
	a.logInfo("analysis starting", map[string]interface{}{
		"run_id":  report.ID,
		"sources": len(roots),
	})
	shape, err := a.AnalyzeAll(ctx, roots)
	if err != nil {
		a.logError("analysis failed", map[string]interface{}{
			"run_id": report.ID,
			"error":  err.Error(),
		})
		return nil, err
	}
	report.Shape = shape
	report.Finished = time.Now()
	a.logInfo("analysis finished", map[string]interface{}{
		"run_id":   report.ID,
		"duration": report.Duration().String(),
	})
	return report, nil
}

func (a *Analyzer) logDebug(msg string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, fields)
	}
}

func (a *Analyzer) logInfo(msg string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Info(msg, fields)
	}
}

func (a *Analyzer) logError(msg string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Error(msg, fields)
	}
}
