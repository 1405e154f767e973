// Package loop runs the asteroid field simulation: the field, collision
// passes, ship state machine and the fixed-rate frame driver.
package loop

import (
	"context"
	"errors"
	"time"
)

// ErrStop ends Run without an error when returned from a hook.
var ErrStop = errors.New("loop: stop")

// Hooks are called around every tick. Either may be nil.
type Hooks struct {
	// BeforeFrame applies input to the session.
	BeforeFrame func(s *Session) error
	// AfterFrame renders or publishes the new state.
	AfterFrame func(s *Session) error
}

// Run advances s at its tuned frame rate until ctx is done or a hook fails.
// It owns s for its whole duration.
func Run(ctx context.Context, s *Session, hooks Hooks) error {
	if s == nil {
		return ErrNoSession
	}

	frameTime := s.tuning.FrameTime()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		frameStart := time.Now()

		if hooks.BeforeFrame != nil {
			if err := hooks.BeforeFrame(s); err != nil {
				return stopErr(err)
			}
		}

		s.AdvanceFrame()

		if hooks.AfterFrame != nil {
			if err := hooks.AfterFrame(s); err != nil {
				return stopErr(err)
			}
		}

		wait := frameTime - time.Since(frameStart)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

func stopErr(err error) error {
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}
