package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/commands/options"
	"tableflip.dev/dispatch/pkg/runner/list"
)

func addTasks(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"list", "ls"},
		Short:   "list dispatch tasks",
		Example: `
dispatch tasks
dispatch tasks --status pending_supplier_response --track B
dispatch tasks --keyword beijing --page 2
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return fo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gw, err := load()
			if err != nil {
				return err
			}
			limit := fo.Limit
			if limit <= 0 {
				limit = cfg.PageSize
			}
			s := list.List{
				ShowID:  io.ShowID,
				Status:  fo.Status,
				Track:   fo.Track,
				Keyword: fo.Keyword,
				Page:    fo.Page,
				Limit:   limit,
				Gateway: gw,
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
