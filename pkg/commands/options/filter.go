// Package options defines shared flag helpers for CLI commands.
package options

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/task"
)

// FilterOptions captures common task list filters.
type FilterOptions struct {
	Status  string
	Track   string
	Keyword string
	Page    int
	Limit   int
}

// AddFilterArgs wires the list filter flags on the provided command.
func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Status, "status", "s", "",
		"Filter by status.")
	cmd.Flags().StringVarP(&o.Track, "track", "t", "",
		"Filter by dispatch track, A or B.")
	cmd.Flags().StringVarP(&o.Keyword, "keyword", "k", "",
		"Filter by keyword.")
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1,
		"Page to fetch.")
	cmd.Flags().IntVarP(&o.Limit, "limit", "l", 0,
		"Tasks per page, 0 uses the configured page size.")
}

// Validate rejects filter values the server would silently ignore.
func (o *FilterOptions) Validate() error {
	if o.Status != "" && !task.Status(o.Status).Valid() {
		return fmt.Errorf("unknown status %q", o.Status)
	}
	if o.Page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", o.Page)
	}
	return nil
}
