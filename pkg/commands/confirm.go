package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/commands/options"
	"tableflip.dev/dispatch/pkg/runner/confirm"
)

func addConfirm(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "confirm <task-id>",
		Short: "confirm a supplier response with vehicle info",
		Example: `
dispatch confirm 42 --manifest LS20240115001 --dispatch-number PC20240115001 --plate 京A12345
dispatch confirm 42 --manifest LS20240115001 --dispatch-number PC20240115001 --carriage C-881 --force
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := load()
			if err != nil {
				return err
			}
			s := confirm.Confirm{
				ID:      args[0],
				Form:    co.Form(),
				Force:   co.Force,
				Gateway: gw,
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddConfirmArgs(cmd, co)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
