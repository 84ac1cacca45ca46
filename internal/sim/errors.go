package sim

import "errors"

var (
	// ErrInvalidConfig is returned by NewStore when the body or type count is
	// not positive. The reset that produced it fails; prior state stands.
	ErrInvalidConfig = errors.New("body count and type count must be positive")

	// ErrNotInitialized is returned by Stepper.Step when no store exists yet.
	// The frame loop is expected to gate stepping on initialization, so a user
	// should never see this.
	ErrNotInitialized = errors.New("step dispatched before store initialization")

	// ErrInvalidBatch is returned by NewStepper for a non-positive batch size.
	// Caught when the stepper is built, never during a step.
	ErrInvalidBatch = errors.New("batch size must be positive")
)
