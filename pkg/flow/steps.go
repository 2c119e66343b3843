// Package flow is the dispatch lifecycle state machine: progress rails,
// role-gated actions, and transition legality. Everything here is pure
// table lookup over task vocabulary; malformed input degrades, it never
// errors or panics.
package flow

import (
	"tableflip.dev/dispatch/pkg/task"
)

// StepState is the render state of one step on a progress rail.
type StepState int

const (
	StepPending StepState = iota
	StepActive
	StepCompleted
)

func (s StepState) String() string {
	switch s {
	case StepActive:
		return "active"
	case StepCompleted:
		return "completed"
	default:
		return "pending"
	}
}

// Step is one named stage on the rail.
type Step struct {
	Name  string
	Label string
	State StepState
}

const (
	stepSubmission     = "submission"
	stepReview         = "dispatcher_review"
	stepDirectDispatch = "direct_dispatch"
	stepResponse       = "supplier_response"
	stepVerification   = "workshop_verification"
	stepConfirmation   = "supplier_confirmation"
	stepClosure        = "closure"
)

var stepLabels = map[string]string{
	stepSubmission:     "Submitted",
	stepReview:         "Dispatcher review",
	stepDirectDispatch: "Direct regional dispatch",
	stepResponse:       "Supplier response",
	stepVerification:   "Workshop verification",
	stepConfirmation:   "Supplier confirmation",
	stepClosure:        "Closed",
}

var trackASteps = []string{
	stepSubmission,
	stepReview,
	stepResponse,
	stepVerification,
	stepConfirmation,
	stepClosure,
}

var trackBSteps = []string{
	stepDirectDispatch,
	stepResponse,
	stepVerification,
	stepConfirmation,
	stepClosure,
}

// Both supplier_confirmed and closed sit on the terminal step so that
// every known status lights exactly one active step.
var trackAIndex = map[task.Status]int{
	task.StatusDraft:            0,
	task.StatusPendingReview:    1,
	task.StatusPendingSupplier:  2,
	task.StatusSupplierRespond:  3,
	task.StatusWorkshopVerified: 4,
	task.StatusSupplierConfirm:  5,
	task.StatusClosed:           5,
}

var trackBIndex = map[task.Status]int{
	task.StatusSupplierRespond:  2,
	task.StatusWorkshopVerified: 3,
	task.StatusSupplierConfirm:  4,
	task.StatusClosed:           4,
}

// Progress renders the step rail for a track and status. Unknown tracks
// fall back to track A; unknown statuses (cancelled included) produce an
// all-pending rail with no active step.
func Progress(track task.Track, status task.Status) []Step {
	names := trackASteps
	index := trackAIndex
	if track == task.TrackB {
		names = trackBSteps
		index = trackBIndex
	}

	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name, Label: stepLabels[name], State: StepPending}
	}

	// On track B a task has no pre-dispatch life: by the time it is
	// awaiting the supplier, the direct dispatch already happened.
	if track == task.TrackB && status == task.StatusPendingSupplier {
		steps[0].State = StepCompleted
		steps[1].State = StepActive
		return steps
	}

	active, ok := index[status]
	if !ok {
		return steps
	}
	for i := range steps {
		switch {
		case i < active:
			steps[i].State = StepCompleted
		case i == active:
			steps[i].State = StepActive
		}
	}
	return steps
}
