package get

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/dispatch/pkg/flow"
	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/printers"
	"tableflip.dev/dispatch/pkg/session"
)

type Get struct {
	ShowID  bool
	ID      string
	Gateway *gateway.Client
}

func (n *Get) Do(ctx context.Context) error {
	if n.Gateway == nil {
		return errors.New("can not get, no gateway")
	}

	t, err := n.Gateway.GetTask(ctx, n.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fmt.Errorf("task %s does not exist", n.ID)
		}
		return err
	}

	if len(t.History) == 0 {
		// The detail payload does not always carry history.
		if records, err := n.Gateway.TaskHistory(ctx, n.ID); err == nil {
			t.History = records
		}
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.Detail(t)

	// Actions depend on who is asking; without a session just show the
	// task.
	if sess, err := session.Establish(ctx, n.Gateway); err == nil {
		pp.NewLine()
		pp.Title("Actions")
		pp.Actions(flow.LegalActions(sess.Role(), t.Status))
	}
	return nil
}
