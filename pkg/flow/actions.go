package flow

import (
	"tableflip.dev/dispatch/pkg/task"
)

// ActionID identifies an operation a user can take on a task.
type ActionID string

const (
	ActionApprove           ActionID = "approve"
	ActionReject            ActionID = "reject"
	ActionConfirmResponse   ActionID = "confirm_response"
	ActionWorkshopDeparture ActionID = "workshop_departure"
	ActionFinalConfirmation ActionID = "final_confirmation"
	ActionRequestPause      ActionID = "request_pause"
)

// Action describes one offered operation. Target is the status the
// action drives the task to, empty when the server decides.
type Action struct {
	ID           ActionID
	Label        string
	Target       task.Status
	Confirm      bool // prompt before firing
	NeedsReason  bool // free-text note required
	NeedsVehicle bool // runs the vehicle-info confirmation flow
}

var actionDefs = map[ActionID]Action{
	ActionApprove:           {ID: ActionApprove, Label: "Approve", Target: task.StatusPendingSupplier, Confirm: true},
	ActionReject:            {ID: ActionReject, Label: "Reject", Target: task.StatusCancelled, NeedsReason: true},
	ActionConfirmResponse:   {ID: ActionConfirmResponse, Label: "Confirm response", Target: task.StatusSupplierRespond, NeedsVehicle: true},
	ActionWorkshopDeparture: {ID: ActionWorkshopDeparture, Label: "Workshop departure", Target: task.StatusWorkshopVerified, Confirm: true},
	ActionFinalConfirmation: {ID: ActionFinalConfirmation, Label: "Final confirmation", Target: task.StatusClosed, Confirm: true},
	ActionRequestPause:      {ID: ActionRequestPause, Label: "Request pause"},
}

var roleActions = map[task.Role]map[task.Status][]ActionID{
	task.RoleSuperAdmin: {
		task.StatusPendingReview: {ActionApprove, ActionReject},
	},
	task.RoleRegionalDispatcher: {
		task.StatusPendingReview: {ActionApprove, ActionReject},
	},
	task.RoleWorkshopDispatcher: {
		task.StatusSupplierRespond: {ActionWorkshopDeparture},
		task.StatusSupplierConfirm: {ActionFinalConfirmation},
	},
	task.RoleSupplier: {
		task.StatusPendingSupplier: {ActionConfirmResponse},
	},
	task.RoleAccountant: {},
}

// Compatibility set handed to roles this client does not recognize, so
// newly introduced server roles keep a minimal working surface.
var fallbackActions = []ActionID{ActionConfirmResponse, ActionRequestPause}

// LegalActions returns the operations a role may take on a task in the
// given status. An empty result means the caller is waiting on someone
// else; present a placeholder, not an error.
func LegalActions(role task.Role, status task.Status) []Action {
	byStatus, known := roleActions[role]
	if !known {
		return resolve(fallbackActions)
	}
	return resolve(byStatus[status])
}

func resolve(ids []ActionID) []Action {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Action, 0, len(ids))
	for _, id := range ids {
		if def, ok := actionDefs[id]; ok {
			out = append(out, def)
		}
	}
	return out
}
