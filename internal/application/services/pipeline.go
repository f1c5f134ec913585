package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
)

// StageOutcome is how one pipeline stage ended.
type StageOutcome string

const (
	StageSucceeded StageOutcome = "succeeded"
	StageFailed    StageOutcome = "failed"
	StageSkipped   StageOutcome = "skipped"
)

// Stage is one step of a page load. A stage runs only after every stage
// named in After has succeeded. A failing Degradable stage is recorded and
// the pipeline continues; any other failure aborts it. Enabled, when set,
// is consulted just before running and a false answer skips the stage.
type Stage struct {
	Name       string
	After      []string
	Degradable bool
	Enabled    func() bool
	Run        func(ctx context.Context) error
}

// StageResult records the outcome of one stage.
type StageResult struct {
	Name    string
	Outcome StageOutcome
	Err     error
}

// Report lists stage results in declaration order.
type Report struct {
	Stages []StageResult
}

// Outcome returns the outcome of the named stage, or "" if it never ran.
func (r Report) Outcome(name string) StageOutcome {
	for _, s := range r.Stages {
		if s.Name == name {
			return s.Outcome
		}
	}
	return ""
}

// Pipeline runs stages in declaration order.
type Pipeline struct {
	name    string
	stages  []Stage
	metrics *observability.Metrics
}

// NewPipeline checks that stage names are unique and that every dependency
// names an earlier stage, so declaration order is always a valid run order.
func NewPipeline(name string, metrics *observability.Metrics, stages ...Stage) (*Pipeline, error) {
	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		if s.Name == "" || s.Run == nil {
			return nil, fmt.Errorf("pipeline %s: stage needs a name and a run func", name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("pipeline %s: duplicate stage %q", name, s.Name)
		}
		for _, dep := range s.After {
			if !seen[dep] {
				return nil, fmt.Errorf("pipeline %s: stage %q depends on undeclared or later stage %q", name, s.Name, dep)
			}
		}
		seen[s.Name] = true
	}
	return &Pipeline{name: name, stages: stages, metrics: metrics}, nil
}

// Run executes the stages. It returns the report so far and the error of
// the first non-degradable stage that failed.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline "+p.name)
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	report := Report{Stages: make([]StageResult, 0, len(p.stages))}
	outcomes := make(map[string]StageOutcome, len(p.stages))

	for _, stage := range p.stages {
		result := StageResult{Name: stage.Name, Outcome: StageSkipped}

		if ready(stage, outcomes) && (stage.Enabled == nil || stage.Enabled()) {
			result.Err = p.runStage(ctx, stage)
			result.Outcome = StageSucceeded
			if result.Err != nil {
				result.Outcome = StageFailed
			}
		}

		outcomes[stage.Name] = result.Outcome
		report.Stages = append(report.Stages, result)
		observability.RecordStageOutcome(ctx, p.metrics, p.name, stage.Name, string(result.Outcome))

		if result.Outcome != StageFailed {
			continue
		}
		if !stage.Degradable {
			observability.RecordError(span, result.Err)
			return report, result.Err
		}
		logger.Warn().
			Err(result.Err).
			Str("pipeline", p.name).
			Str("stage", stage.Name).
			Msg("Stage failed, continuing without it")
	}

	return report, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage) error {
	ctx, span := observability.StartSpan(ctx, p.name+"."+stage.Name)
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("pipeline.name", p.name),
		attribute.String("pipeline.stage", stage.Name),
		attribute.Bool("pipeline.degradable", stage.Degradable),
	)

	err := stage.Run(ctx)
	observability.RecordError(span, err)
	return err
}

func ready(stage Stage, outcomes map[string]StageOutcome) bool {
	for _, dep := range stage.After {
		if outcomes[dep] != StageSucceeded {
			return false
		}
	}
	return true
}
