package jobs

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/teei/idctl/pkg/bridge"
)

// Step outcomes beyond the bridge's own status strings.
const (
	StatusError   = "ERROR"
	StatusSkipped = "SKIPPED"
	StatusDryRun  = "DRY-RUN"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string           `json:"name" yaml:"name"`
	Action   string           `json:"action" yaml:"action"`
	Status   string           `json:"status" yaml:"status"`
	Message  string           `json:"message,omitempty" yaml:"message,omitempty"`
	Duration time.Duration    `json:"duration" yaml:"duration"`
	Command  bridge.Command   `json:"-" yaml:"-"`
	Response *bridge.Response `json:"-" yaml:"-"`
}

// OK reports whether the step succeeded.
func (s StepResult) OK() bool {
	return s.Status == bridge.StatusSuccess || s.Status == StatusDryRun
}

// Result is the outcome of a job run.
type Result struct {
	Job    string       `json:"job" yaml:"job"`
	OK     bool         `json:"ok" yaml:"ok"`
	Failed int          `json:"failed" yaml:"failed"`
	Steps  []StepResult `json:"steps" yaml:"steps"`
}

// StepHook is called after each step.
type StepHook func(index int, res StepResult)

// Runner sends the steps of a job strictly in order.
type Runner struct {
	sender bridge.Sender
	dryRun bool
	hook   StepHook
}

func NewRunner(sender bridge.Sender) *Runner {
	return &Runner{sender: sender}
}

// WithDryRun builds the commands without sending them.
func (r *Runner) WithDryRun(dryRun bool) *Runner {
	r.dryRun = dryRun
	return r
}

// WithStepHook reports progress as steps finish.
func (r *Runner) WithStepHook(h StepHook) *Runner {
	r.hook = h
	return r
}

// Run executes job. It stops at the first failing step unless that step
// sets continue_on_error; an unreachable proxy always stops the run. Steps
// after a stop are reported as skipped.
func (r *Runner) Run(ctx context.Context, job *Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	result := &Result{Job: job.Name, OK: true}
	cmds := job.Commands()
	stopped := false

	for i, step := range job.Steps {
		res := StepResult{Name: step.Name, Action: step.Action, Command: cmds[i]}

		switch {
		case stopped:
			res.Status = StatusSkipped
		case r.dryRun:
			res.Status = StatusDryRun
		default:
			if err := ctx.Err(); err != nil {
				return result, err
			}
			start := time.Now()
			resp, err := r.sender.Send(ctx, cmds[i])
			res.Duration = time.Since(start)
			res.Response = resp

			switch {
			case err != nil:
				res.Status, res.Message = StatusError, err.Error()
				if errors.Is(err, bridge.ErrProxyUnreachable) || ctx.Err() != nil {
					stopped = true
				}
			case resp.OK():
				res.Status = bridge.StatusSuccess
			default:
				res.Status, res.Message = resp.Status, resp.Failure()
			}
			if !res.OK() {
				result.OK = false
				result.Failed++
				if step.ContinueOnError && !stopped {
					log.Warnf("Step %q failed, continuing: %s", step.Name, res.Message)
				} else {
					stopped = true
				}
			}
		}

		result.Steps = append(result.Steps, res)
		if r.hook != nil {
			r.hook(i, res)
		}
	}
	return result, nil
}
