package types

import "fmt"

// Step is the coarse phase of a conversation. It is persisted as a small
// integer alongside the message log.
type Step int

const (
	// StepOpen is the initial phase: free questions answered from the
	// knowledge base. Registration completion also drops back here.
	StepOpen Step = 0

	// StepGreeted means the bot has just greeted the user or asked them to
	// identify themselves.
	StepGreeted Step = 1

	// StepRegistering means the bot is mid-way through collecting
	// identification data.
	StepRegistering Step = 2
)

// AllSteps returns all valid conversation steps
func AllSteps() []Step {
	return []Step{StepOpen, StepGreeted, StepRegistering}
}

// IsValid checks if the step is valid
func (s Step) IsValid() bool {
	switch s {
	case StepOpen, StepGreeted, StepRegistering:
		return true
	default:
		return false
	}
}

// Int returns the integer representation of the step
func (s Step) Int() int {
	return int(s)
}

// String returns a readable name for the step
func (s Step) String() string {
	switch s {
	case StepOpen:
		return "open"
	case StepGreeted:
		return "greeted"
	case StepRegistering:
		return "registering"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseStep parses an integer into a Step
func ParseStep(v int) (Step, error) {
	step := Step(v)
	if !step.IsValid() {
		return 0, fmt.Errorf("invalid conversation step: %d", v)
	}
	return step, nil
}
