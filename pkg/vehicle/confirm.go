package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/task"
)

// ErrAlreadyConfirmed reports that the task's own status says a
// supplier response is already in; the submit never leaves the client.
var ErrAlreadyConfirmed = errors.New("vehicle: supplier already responded to this task")

// Confirmer is the slice of the gateway the submit needs.
type Confirmer interface {
	ConfirmWithVehicle(ctx context.Context, id string, req gateway.ConfirmRequest) error
}

// CapacityWarning means the chosen vehicle holds less than the task
// needs. It demands an explicit reconfirmation, not a fix: the user may
// proceed anyway.
type CapacityWarning struct {
	Actual   float64
	Required float64
}

func (w *CapacityWarning) Message() string {
	return fmt.Sprintf("Vehicle volume %.1fm³ is below the required %.1fm³. Use it anyway?", w.Actual, w.Required)
}

// CheckCapacity compares a resolved vehicle against the task's required
// volume. Nothing to warn about when either side is unknown.
func CheckCapacity(record *task.VehicleRecord, required *float64) *CapacityWarning {
	if record == nil || required == nil || record.ActualVolume <= 0 {
		return nil
	}
	if record.ActualVolume < *required {
		return &CapacityWarning{Actual: record.ActualVolume, Required: *required}
	}
	return nil
}

// FieldToClear names the field to blank and refocus when the user
// declines a capacity warning: whichever identifier drove the lookup.
func FieldToClear(form ConfirmForm) Field {
	if form.CarriageNumber != "" {
		return FieldCarriageNumber
	}
	return FieldLicensePlate
}

// alreadyResponded reports whether a status means the supplier response
// window has closed.
func alreadyResponded(s task.Status) bool {
	switch s {
	case task.StatusSupplierRespond, task.StatusWorkshopVerified, task.StatusSupplierConfirm, task.StatusClosed:
		return true
	}
	return false
}

// Submit validates and sends the confirmation. Validation problems and
// server conflicts come back as FieldErrors; ErrAlreadyConfirmed comes
// back without a network round trip; anything else is a plain error and
// the form stays submittable.
func Submit(ctx context.Context, c Confirmer, t *task.Task, form *ConfirmForm, resolved *task.VehicleRecord) (FieldErrors, error) {
	if errs := form.Validate(); errs.Any() {
		return errs, nil
	}
	if alreadyResponded(t.Status) {
		return nil, ErrAlreadyConfirmed
	}

	req := gateway.ConfirmRequest{
		ManifestNumber: form.ManifestNumber,
		DispatchNumber: form.DispatchNumber,
		LicensePlate:   form.LicensePlate,
		CarriageNumber: form.CarriageNumber,
		Note:           form.Note,
	}
	if resolved != nil && resolved.ActualVolume > 0 {
		req.ActualVolume = strconv.FormatFloat(resolved.ActualVolume, 'f', -1, 64)
	}

	err := c.ConfirmWithVehicle(ctx, t.ID, req)
	if err == nil {
		return nil, nil
	}

	// 4003 and 4004 are uniqueness conflicts on specific inputs; pin
	// them to their fields so the user lands on the right box.
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 4003:
			return FieldErrors{FieldManifestNumber: conflictMessage(apiErr, "Manifest number already exists")}, nil
		case 4004:
			return FieldErrors{FieldDispatchNumber: conflictMessage(apiErr, "Dispatch number already exists")}, nil
		}
	}
	return nil, err
}

func conflictMessage(err *gateway.APIError, fallback string) string {
	if err.Message != "" {
		return err.Message
	}
	return fallback
}
