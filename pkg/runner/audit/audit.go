package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/dispatch/pkg/gateway"
)

type Audit struct {
	ID      string
	Approve bool
	Note    string
	Gateway *gateway.Client
}

func (n *Audit) Do(ctx context.Context) error {
	if n.Gateway == nil {
		return errors.New("can not audit, no gateway")
	}
	if !n.Approve && n.Note == "" {
		return errors.New("rejecting needs a note")
	}

	if err := n.Gateway.AuditTask(ctx, n.ID, n.Approve, n.Note); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fmt.Errorf("task %s does not exist", n.ID)
		}
		return err
	}

	verdict := "approved"
	if !n.Approve {
		verdict = "rejected"
	}
	_, _ = color.New(color.FgGreen).Printf("task %s %s\n", n.ID, verdict)
	return nil
}
