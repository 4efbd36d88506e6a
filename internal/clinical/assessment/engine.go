// Package assessment runs the full wound assessment: score, axes, protocol,
// urgency and catalog recommendations.
package assessment

import (
	"context"
	"fmt"
	"time"

	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/clinical/protocol"
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/clinical/timers"
	"woundcare-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultPhase is reported when no axis triggered and no tissue profile applies.
var DefaultPhase = models.AxisEdge

// Input accepts numeric parameters, a categorical tissue type, or both.
type Input struct {
	Parameters models.WoundParameters `json:"parameters"`
	TissueType string                 `json:"tissueType,omitempty"`
}

type Result struct {
	RuleTable            string                                `json:"ruleTable"`
	Score                int                                   `json:"score"`
	Breakdown            resvech.Breakdown                     `json:"breakdown"`
	Prognosis            resvech.Prognosis                     `json:"prognosis"`
	PrognosisDescription string                                `json:"prognosisDescription"`
	Phase                string                                `json:"phase"`
	PhaseAxis            models.Axis                           `json:"phaseAxis"`
	Axes                 map[models.Axis]models.AxisAssessment `json:"axes"`
	TissueProfile        *timers.TissueProfile                 `json:"tissueProfile,omitempty"`
	BiofilmSuspected     bool                                  `json:"biofilmSuspected"`
	Protocol             protocol.Protocol                     `json:"protocol"`
	Urgency              models.Urgency                        `json:"urgency"`
	Recommendations      catalog.Result                        `json:"recommendations"`
	ScaleViolations      []resvech.Violation                   `json:"scaleViolations,omitempty"`
	AssessedAt           time.Time                             `json:"assessedAt"`
}

// TissueAnalysis is the categorical-only reading of a tissue type.
type TissueAnalysis struct {
	TissueType string         `json:"tissueType"`
	Recognized bool           `json:"recognized"`
	Axis       models.Axis    `json:"axis,omitempty"`
	Phase      string         `json:"phase"`
	Diagnosis  string         `json:"diagnosis"`
	Treatment  string         `json:"treatment"`
	Dressing   string         `json:"dressing,omitempty"`
	Urgency    models.Urgency `json:"urgency"`
	AnalyzedAt time.Time      `json:"analyzedAt"`
}

// Engine is safe for concurrent use. It holds only read-only configuration.
type Engine struct {
	table    resvech.RuleTable
	catalog  *catalog.Catalog
	selector protocol.Selector
	now      func() time.Time
}

type Option func(*Engine)

// WithClock replaces the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New builds an engine. A nil catalog selects the built-in catalog.
func New(table resvech.RuleTable, cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("rule table: %w", err)
	}
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Engine{
		table:    table,
		catalog:  cat,
		selector: protocol.NewSelector(table),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) RuleTable() resvech.RuleTable {
	return e.table
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Assess evaluates one observation. Apart from AssessedAt the result depends
// only on the input and the engine configuration.
func (e *Engine) Assess(in Input) Result {
	p := in.Parameters
	score := resvech.Score(p)
	band := e.table.Classify(score)

	axes := timers.Classify(p, e.table)

	var profile *timers.TissueProfile
	if in.TissueType != "" {
		tp := timers.ProfileFor(in.TissueType)
		profile = &tp
		axes = timers.ApplyProfile(axes, tp)
	}

	phaseAxis := DefaultPhase
	if profile != nil && profile.Recognized {
		phaseAxis = profile.Axis
	} else if a, ok := timers.DominantAxis(axes); ok {
		phaseAxis = a
	}

	suspected := protocol.BiofilmSuspected(score, e.table)
	proto := e.selector.Select(p.Points(models.ComponentInfection), suspected)

	return Result{
		RuleTable:            e.table.Version,
		Score:                score,
		Breakdown:            resvech.NewBreakdown(p),
		Prognosis:            band.Prognosis,
		PrognosisDescription: band.Description,
		Phase:                phaseAxis.Phase(),
		PhaseAxis:            phaseAxis,
		Axes:                 axes,
		TissueProfile:        profile,
		BiofilmSuspected:     suspected,
		Protocol:             proto,
		Urgency:              protocol.DeriveUrgency(band.Prognosis, phaseAxis, axes),
		Recommendations:      catalog.Filter(e.catalog, axes, score, p),
		ScaleViolations:      e.table.Scale.OutOfRange(p),
		AssessedAt:           e.now(),
	}
}

// AnalyzeTissue is the categorical path. Its urgency comes straight from the
// tissue profile, so LOW is possible here.
func (e *Engine) AnalyzeTissue(tissueType string) TissueAnalysis {
	p := timers.ProfileFor(tissueType)
	return TissueAnalysis{
		TissueType: p.TissueType,
		Recognized: p.Recognized,
		Axis:       p.Axis,
		Phase:      p.Phase,
		Diagnosis:  p.Diagnosis,
		Treatment:  p.Treatment,
		Dressing:   p.Dressing,
		Urgency:    p.Urgency,
		AnalyzedAt: e.now(),
	}
}

// AssessBatch evaluates inputs concurrently with at most parallelism
// goroutines (unbounded when parallelism <= 0). Results keep input order.
// It fails only when ctx is done.
func (e *Engine) AssessBatch(ctx context.Context, inputs []Input, parallelism int) ([]Result, error) {
	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, in := range inputs {
		i, in := i, in
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Assess(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
