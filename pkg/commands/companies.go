package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/printers"
)

func addCompanies(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "list carrier companies",
		Example: `
dispatch companies
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gw, err := load()
			if err != nil {
				return err
			}
			names, err := gw.ListCompanies(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			pp := printers.PrettyPrint{}
			pp.NewLine()
			pp.Title("Carrier companies")
			for _, name := range names {
				fmt.Println("  " + name)
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
