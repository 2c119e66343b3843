package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/commands/options"
	"tableflip.dev/dispatch/pkg/config"
	"tableflip.dev/dispatch/pkg/gateway"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: options.Wrap80("Dispatch task management on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addTasks(topLevel)
	addGet(topLevel)
	addSubmit(topLevel)
	addAudit(topLevel)
	addConfirm(topLevel)
	addVehicles(topLevel)
	addCompanies(topLevel)
	addVersion(topLevel)
}

// load builds a gateway client from the resolved config. Every command
// that talks to the server goes through here.
func load() (*config.Config, *gateway.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	gw, err := gateway.New(cfg.BaseURL,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithRetries(cfg.Retries),
		gateway.WithCookie(cfg.Cookie),
	)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gw, nil
}
