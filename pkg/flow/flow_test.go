package flow

import (
	"testing"

	"tableflip.dev/dispatch/pkg/task"
)

func railShape(t *testing.T, steps []Step) (active int, completed int) {
	t.Helper()
	active = -1
	for i, s := range steps {
		switch s.State {
		case StepActive:
			if active != -1 {
				t.Fatalf("two active steps: %d and %d", active, i)
			}
			active = i
		case StepCompleted:
			completed++
		}
	}
	return active, completed
}

func TestTrackAProgressEveryStatus(t *testing.T) {
	want := map[task.Status]int{
		task.StatusDraft:            0,
		task.StatusPendingReview:    1,
		task.StatusPendingSupplier:  2,
		task.StatusSupplierRespond:  3,
		task.StatusWorkshopVerified: 4,
		task.StatusSupplierConfirm:  5,
		task.StatusClosed:           5,
	}
	for status, wantActive := range want {
		steps := Progress(task.TrackA, status)
		if len(steps) != 6 {
			t.Fatalf("%s: got %d steps, want 6", status, len(steps))
		}
		active, completed := railShape(t, steps)
		if active != wantActive {
			t.Errorf("%s: active step %d, want %d", status, active, wantActive)
		}
		if completed != wantActive {
			t.Errorf("%s: %d completed steps, want %d", status, completed, wantActive)
		}
		for i := active + 1; i < len(steps); i++ {
			if steps[i].State != StepPending {
				t.Errorf("%s: step %d after active is %v", status, i, steps[i].State)
			}
		}
	}
}

func TestTrackBSyntheticFirstStep(t *testing.T) {
	steps := Progress(task.TrackB, task.StatusPendingSupplier)
	if len(steps) != 5 {
		t.Fatalf("got %d steps, want 5", len(steps))
	}
	if steps[0].Name != "direct_dispatch" || steps[0].State != StepCompleted {
		t.Errorf("first step = %q/%v, want direct_dispatch completed", steps[0].Name, steps[0].State)
	}
	if steps[1].State != StepActive {
		t.Errorf("second step state = %v, want active", steps[1].State)
	}
	for i := 2; i < len(steps); i++ {
		if steps[i].State != StepPending {
			t.Errorf("step %d state = %v, want pending", i, steps[i].State)
		}
	}
}

func TestTrackBProgressLaterStatuses(t *testing.T) {
	want := map[task.Status]int{
		task.StatusSupplierRespond:  2,
		task.StatusWorkshopVerified: 3,
		task.StatusSupplierConfirm:  4,
		task.StatusClosed:           4,
	}
	for status, wantActive := range want {
		steps := Progress(task.TrackB, status)
		active, completed := railShape(t, steps)
		if active != wantActive || completed != wantActive {
			t.Errorf("%s: active=%d completed=%d, want both %d", status, active, completed, wantActive)
		}
	}
}

func TestUnknownStatusDegradesToAllPending(t *testing.T) {
	for _, status := range []task.Status{"", "mystery", task.StatusCancelled} {
		steps := Progress(task.TrackA, status)
		if len(steps) != 6 {
			t.Fatalf("%q: got %d steps", status, len(steps))
		}
		for i, s := range steps {
			if s.State != StepPending {
				t.Errorf("%q: step %d state = %v, want pending", status, i, s.State)
			}
		}
	}
}

func TestUnknownTrackFallsBackToTrackA(t *testing.T) {
	got := Progress(task.Track("C"), task.StatusPendingReview)
	want := Progress(task.TrackA, task.StatusPendingReview)
	if len(got) != len(want) {
		t.Fatalf("got %d steps, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLegalActionsRoleGating(t *testing.T) {
	cases := []struct {
		role   task.Role
		status task.Status
		want   []ActionID
	}{
		{task.RoleSuperAdmin, task.StatusPendingReview, []ActionID{ActionApprove, ActionReject}},
		{task.RoleRegionalDispatcher, task.StatusPendingReview, []ActionID{ActionApprove, ActionReject}},
		{task.RoleRegionalDispatcher, task.StatusPendingSupplier, nil},
		{task.RoleWorkshopDispatcher, task.StatusSupplierRespond, []ActionID{ActionWorkshopDeparture}},
		{task.RoleWorkshopDispatcher, task.StatusSupplierConfirm, []ActionID{ActionFinalConfirmation}},
		{task.RoleWorkshopDispatcher, task.StatusPendingReview, nil},
		{task.RoleSupplier, task.StatusPendingSupplier, []ActionID{ActionConfirmResponse}},
		{task.RoleSupplier, task.StatusSupplierRespond, nil},
		{task.RoleAccountant, task.StatusPendingReview, nil},
		{task.Role("auditor_v2"), task.StatusDraft, []ActionID{ActionConfirmResponse, ActionRequestPause}},
		{task.Role("auditor_v2"), task.StatusClosed, []ActionID{ActionConfirmResponse, ActionRequestPause}},
	}
	for _, tc := range cases {
		got := LegalActions(tc.role, tc.status)
		if len(got) != len(tc.want) {
			t.Errorf("%s/%s: got %d actions, want %d", tc.role, tc.status, len(got), len(tc.want))
			continue
		}
		for i, a := range got {
			if a.ID != tc.want[i] {
				t.Errorf("%s/%s: action %d = %s, want %s", tc.role, tc.status, i, a.ID, tc.want[i])
			}
		}
	}
}

func TestConfirmResponseNeedsVehicle(t *testing.T) {
	actions := LegalActions(task.RoleSupplier, task.StatusPendingSupplier)
	if len(actions) != 1 || !actions[0].NeedsVehicle {
		t.Fatalf("confirm_response should require vehicle info: %+v", actions)
	}
}

func TestAllowedTransitions(t *testing.T) {
	ok := []struct {
		track  task.Track
		status task.Status
		role   task.Role
		next   task.Status
	}{
		{task.TrackA, task.StatusDraft, task.RoleWorkshopDispatcher, task.StatusPendingReview},
		{task.TrackA, task.StatusPendingReview, task.RoleSuperAdmin, task.StatusPendingSupplier},
		{task.TrackA, task.StatusPendingReview, task.RoleRegionalDispatcher, task.StatusCancelled},
		{task.TrackA, task.StatusSupplierConfirm, task.RoleWorkshopDispatcher, task.StatusClosed},
		{task.TrackB, task.StatusSupplierRespond, task.RoleRegionalDispatcher, task.StatusWorkshopVerified},
		{task.TrackB, task.StatusSupplierConfirm, task.RoleSuperAdmin, task.StatusClosed},
	}
	for _, tc := range ok {
		if err := Allowed(tc.track, tc.status, tc.role, tc.next); err != nil {
			t.Errorf("%s/%s %s→%s: unexpected error %v", tc.track, tc.role, tc.status, tc.next, err)
		}
	}

	bad := []struct {
		track  task.Track
		status task.Status
		role   task.Role
		next   task.Status
	}{
		{task.TrackA, task.StatusPendingReview, task.RoleSupplier, task.StatusPendingSupplier},
		{task.TrackA, task.StatusDraft, task.RoleWorkshopDispatcher, task.StatusClosed},
		{task.TrackA, task.StatusClosed, task.RoleSuperAdmin, task.StatusDraft},
		{task.TrackB, task.StatusSupplierRespond, task.RoleWorkshopDispatcher, task.StatusWorkshopVerified},
		{task.TrackB, task.StatusDraft, task.RoleWorkshopDispatcher, task.StatusPendingReview},
	}
	for _, tc := range bad {
		if err := Allowed(tc.track, tc.status, tc.role, tc.next); err == nil {
			t.Errorf("%s/%s %s→%s: expected error", tc.track, tc.role, tc.status, tc.next)
		}
	}
}

func TestNextHandler(t *testing.T) {
	if got := NextHandler(task.TrackA, task.StatusSupplierRespond); got != task.RoleWorkshopDispatcher {
		t.Errorf("track A supplier_responded handler = %q", got)
	}
	if got := NextHandler(task.TrackB, task.StatusSupplierRespond); got != task.RoleRegionalDispatcher {
		t.Errorf("track B supplier_responded handler = %q", got)
	}
	if got := NextHandler(task.TrackA, task.StatusClosed); got != "" {
		t.Errorf("closed handler = %q, want empty", got)
	}
}
