package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dispatch/pkg/vehicle"
)

// ConfirmOptions carries the vehicle-info confirmation form flags.
type ConfirmOptions struct {
	ManifestNumber string
	DispatchNumber string
	LicensePlate   string
	CarriageNumber string
	Note           string
	Force          bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().StringVar(&o.ManifestNumber, "manifest", "",
		"Manifest number, example LS20240115001.")
	cmd.Flags().StringVar(&o.DispatchNumber, "dispatch-number", "",
		"Dispatch number, example PC20240115001.")
	cmd.Flags().StringVar(&o.LicensePlate, "plate", "",
		"Vehicle license plate, example 京A12345.")
	cmd.Flags().StringVar(&o.CarriageNumber, "carriage", "",
		"Carriage number, preferred over the plate for volume lookup.")
	cmd.Flags().StringVar(&o.Note, "note", "",
		"Optional note, up to 500 characters.")
	cmd.Flags().BoolVar(&o.Force, "force", false,
		"Confirm even when the vehicle volume is under the required volume.")
}

// Form converts the flags into the shared confirmation form.
func (o *ConfirmOptions) Form() vehicle.ConfirmForm {
	return vehicle.ConfirmForm{
		ManifestNumber: o.ManifestNumber,
		DispatchNumber: o.DispatchNumber,
		LicensePlate:   o.LicensePlate,
		CarriageNumber: o.CarriageNumber,
		Note:           o.Note,
	}
}
