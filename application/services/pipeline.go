package services

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Gmy-678/voice-changer/domain"
)

// Step is one stage of the conversion pipeline: a function of the current
// artifact and the task context producing the next artifact.
type Step interface {
	Name() string
	Run(artifact domain.Artifact, ctx *domain.TaskContext) (domain.Artifact, error)
}

// Pipeline executes steps strictly in construction order, threading each
// step's output artifact into the next step. It records per-step wall-clock
// timing, captures the first failure with context, and aborts immediately:
// fail-fast, no retries. Cleanup stays with the caller.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Run(initial domain.Artifact, ctx *domain.TaskContext) (domain.Artifact, error) {
	current := initial

	for _, step := range p.steps {
		start := time.Now()

		result, err := p.runStep(step, current, ctx)
		if err != nil {
			ctx.Debug.AppendError(failureFor(step.Name(), err))
			return domain.Artifact{}, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		if result.IsZero() {
			err := fmt.Errorf("step %s returned an empty artifact", step.Name())
			ctx.Debug.AppendError(domain.StepFailure{
				Step:  step.Name(),
				Error: err.Error(),
				Kind:  "contract",
			})
			return domain.Artifact{}, err
		}
		current = result

		ctx.Debug.AddTiming(step.Name(), time.Since(start).Seconds())
	}

	return current, nil
}

// runStep isolates a single step invocation so a panicking step surfaces as a
// recorded failure with its stack instead of taking the process down.
func (p *Pipeline) runStep(step Step, artifact domain.Artifact, ctx *domain.TaskContext) (result domain.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &stepPanic{value: r, stack: string(debug.Stack())}
		}
	}()
	return step.Run(artifact, ctx)
}

type stepPanic struct {
	value interface{}
	stack string
}

func (e *stepPanic) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func failureFor(stepName string, err error) domain.StepFailure {
	failure := domain.StepFailure{
		Step:  stepName,
		Error: err.Error(),
		Kind:  "error",
	}
	var panicked *stepPanic
	if errors.As(err, &panicked) {
		failure.Kind = "panic"
		failure.Trace = panicked.stack
	}
	return failure
}
