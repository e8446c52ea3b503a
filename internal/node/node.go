package node

import (
	"context"
	"errors"
	"log/slog"
)

// Stepper advances one pull -> compute -> push cycle. It returns true
// exactly when end-of-stream was observed, ending the run loop.
type Stepper interface {
	Step(ctx context.Context) (eos bool, err error)
}

// StepFunc adapts a function to the Stepper interface.
type StepFunc func(ctx context.Context) (bool, error)

// Step implements Stepper.
func (f StepFunc) Step(ctx context.Context) (bool, error) { return f(ctx) }

// Run loops the stepper until end-of-stream, a step error, or context
// cancellation. Cancellation is a normal shutdown, not an error: the
// in-flight step finishes (or wakes out of its blocking wait) and the
// loop exits cleanly.
func Run(ctx context.Context, logger *slog.Logger, s Stepper) error {
	if logger == nil {
		logger = slog.Default()
	}
	samples := 0
	for {
		if ctx.Err() != nil {
			logger.Info("interrupted", slog.Int("samples", samples))
			return nil
		}
		eos, err := s.Step(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("interrupted", slog.Int("samples", samples))
				return nil
			}
			return err
		}
		samples++
		if eos {
			logger.Info("end of stream", slog.Int("samples", samples))
			return nil
		}
	}
}
