package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/runner/vehicles"
)

func addVehicles(topLevel *cobra.Command) {
	var byCarriage bool
	var limit int

	cmd := &cobra.Command{
		Use:   "vehicles <query>",
		Short: "search the vehicle registry",
		Example: `
dispatch vehicles 京A
dispatch vehicles C-88 --carriage
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := load()
			if err != nil {
				return err
			}
			s := vehicles.Search{
				Query:      args[0],
				ByCarriage: byCarriage,
				Limit:      limit,
				Gateway:    gw,
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().BoolVar(&byCarriage, "carriage", false, "Search by carriage number instead of license plate.")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results.")

	topLevel.AddCommand(cmd)
}
