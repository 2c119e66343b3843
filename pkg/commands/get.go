package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/commands/options"
	"tableflip.dev/dispatch/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "get <task-id>",
		Short: "show one task with its progress and history",
		Example: `
dispatch get 42
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := load()
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:  io.ShowID,
				ID:      args[0],
				Gateway: gw,
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
