package confirm

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/vehicle"
)

type Confirm struct {
	ID    string
	Form  vehicle.ConfirmForm
	Force bool

	Gateway *gateway.Client
}

func (n *Confirm) Do(ctx context.Context) error {
	if n.Gateway == nil {
		return errors.New("can not confirm, no gateway")
	}

	t, err := n.Gateway.GetTask(ctx, n.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fmt.Errorf("task %s does not exist", n.ID)
		}
		return err
	}

	lookup := vehicle.NewLookup(n.Gateway)
	resolved, err := lookup.Resolve(ctx, n.Form.LicensePlate, n.Form.CarriageNumber)
	if err != nil {
		// The registry being down only means the volume stays unknown.
		resolved = nil
	}

	if w := vehicle.CheckCapacity(resolved, t.Volume); w != nil && !n.Force {
		return fmt.Errorf("%s, re-run with --force to confirm anyway", w.Message())
	}

	form := n.Form
	errs, err := vehicle.Submit(ctx, n.Gateway, t, &form, resolved)
	if errs.Any() {
		bad := color.New(color.FgRed)
		for field, msg := range errs {
			_, _ = bad.Printf("%s: %s\n", field.Label(), msg)
		}
		return errors.New("confirmation rejected")
	}
	if err != nil {
		if errors.Is(err, vehicle.ErrAlreadyConfirmed) {
			return fmt.Errorf("task %s already has a supplier response", n.ID)
		}
		return err
	}

	_, _ = color.New(color.FgGreen).Printf("task %s response confirmed\n", n.ID)
	return nil
}
