package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/gateway"
)

func addSubmit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "submit <task-id>",
		Short: "submit a draft task for dispatcher review",
		Example: `
dispatch submit 42
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := load()
			if err != nil {
				return err
			}
			if err := gw.SubmitTask(context.Background(), args[0]); err != nil {
				if errors.Is(err, gateway.ErrNotFound) {
					return oo.HandleError(fmt.Errorf("task %s does not exist", args[0]))
				}
				return oo.HandleError(err)
			}
			_, _ = color.New(color.FgGreen).Printf("task %s submitted\n", args[0])
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
