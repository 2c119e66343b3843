package vehicles

import (
	"context"
	"errors"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/printers"
)

type Search struct {
	Query      string
	ByCarriage bool
	Limit      int
	Gateway    *gateway.Client
}

func (n *Search) Do(ctx context.Context) error {
	if n.Gateway == nil {
		return errors.New("can not search, no gateway")
	}

	kind := gateway.ByLicensePlate
	if n.ByCarriage {
		kind = gateway.ByCarriageNumber
	}
	records, err := n.Gateway.SearchVehicles(ctx, n.Query, kind, n.Limit)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Vehicles(records)
	return nil
}
