package flow

import (
	"fmt"

	"tableflip.dev/dispatch/pkg/task"
)

// transitionRule names who may move a task out of a status and where it
// may go. The server holds the authoritative copy; this one exists so
// commands can fail fast with a useful message before a round trip.
type transitionRule struct {
	roles   []task.Role
	targets []task.Status
}

var trackARules = map[task.Status]transitionRule{
	task.StatusDraft: {
		roles:   []task.Role{task.RoleWorkshopDispatcher},
		targets: []task.Status{task.StatusPendingReview},
	},
	task.StatusPendingReview: {
		roles:   []task.Role{task.RoleRegionalDispatcher, task.RoleSuperAdmin},
		targets: []task.Status{task.StatusPendingSupplier, task.StatusCancelled},
	},
	task.StatusPendingSupplier: {
		roles:   []task.Role{task.RoleSupplier},
		targets: []task.Status{task.StatusSupplierRespond},
	},
	task.StatusSupplierRespond: {
		roles:   []task.Role{task.RoleWorkshopDispatcher},
		targets: []task.Status{task.StatusWorkshopVerified},
	},
	task.StatusWorkshopVerified: {
		roles:   []task.Role{task.RoleSupplier},
		targets: []task.Status{task.StatusSupplierConfirm},
	},
	task.StatusSupplierConfirm: {
		roles:   []task.Role{task.RoleWorkshopDispatcher},
		targets: []task.Status{task.StatusClosed},
	},
}

// Track B skips review; the regional dispatcher (or super admin) takes
// the workshop dispatcher's verification and closing duties.
var trackBRules = map[task.Status]transitionRule{
	task.StatusPendingSupplier: {
		roles:   []task.Role{task.RoleSupplier},
		targets: []task.Status{task.StatusSupplierRespond},
	},
	task.StatusSupplierRespond: {
		roles:   []task.Role{task.RoleRegionalDispatcher, task.RoleSuperAdmin},
		targets: []task.Status{task.StatusWorkshopVerified},
	},
	task.StatusWorkshopVerified: {
		roles:   []task.Role{task.RoleSupplier},
		targets: []task.Status{task.StatusSupplierConfirm},
	},
	task.StatusSupplierConfirm: {
		roles:   []task.Role{task.RoleRegionalDispatcher, task.RoleSuperAdmin},
		targets: []task.Status{task.StatusClosed},
	},
}

func rulesFor(track task.Track) map[task.Status]transitionRule {
	if track == task.TrackB {
		return trackBRules
	}
	return trackARules
}

// Allowed checks whether role may move a task on track from status to
// next. A nil return means the transition is legal as far as this
// client knows.
func Allowed(track task.Track, status task.Status, role task.Role, next task.Status) error {
	rule, ok := rulesFor(track)[status]
	if !ok {
		return fmt.Errorf("no transitions leave status %q on this track", status)
	}
	if !containsRole(rule.roles, role) {
		return fmt.Errorf("role %q may not act on a task in status %q", role, status)
	}
	if !containsStatus(rule.targets, next) {
		return fmt.Errorf("cannot move from %q to %q", status, next)
	}
	return nil
}

// NextHandler names the role responsible for a task once it reaches
// status. Empty for terminal and unknown statuses.
func NextHandler(track task.Track, status task.Status) task.Role {
	switch status {
	case task.StatusPendingReview:
		return task.RoleRegionalDispatcher
	case task.StatusPendingSupplier, task.StatusWorkshopVerified:
		return task.RoleSupplier
	case task.StatusSupplierRespond, task.StatusSupplierConfirm:
		if track == task.TrackB {
			return task.RoleRegionalDispatcher
		}
		return task.RoleWorkshopDispatcher
	default:
		return ""
	}
}

func containsRole(rs []task.Role, r task.Role) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

func containsStatus(ss []task.Status, s task.Status) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
