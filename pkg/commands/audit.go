package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/runner/audit"
)

func addAudit(topLevel *cobra.Command) {
	var approve, reject bool
	var note string

	cmd := &cobra.Command{
		Use:   "audit <task-id>",
		Short: "record a dispatcher review verdict",
		Example: `
dispatch audit 42 --approve
dispatch audit 42 --reject --note "no capacity this week"
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if approve == reject {
				return errors.New("pick exactly one of --approve or --reject")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := load()
			if err != nil {
				return err
			}
			s := audit.Audit{
				ID:      args[0],
				Approve: approve,
				Note:    note,
				Gateway: gw,
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Approve the task.")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the task, needs --note.")
	cmd.Flags().StringVar(&note, "note", "", "Review note, required when rejecting.")

	topLevel.AddCommand(cmd)
}
