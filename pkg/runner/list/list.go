package list

import (
	"context"
	"errors"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/paginate"
	"tableflip.dev/dispatch/pkg/printers"
	"tableflip.dev/dispatch/pkg/task"
)

type List struct {
	ShowID  bool
	Status  string
	Track   string
	Keyword string
	Page    int
	Limit   int
	Gateway *gateway.Client
}

func (n *List) Do(ctx context.Context) error {
	if n.Gateway == nil {
		return errors.New("can not list, no gateway")
	}
	if n.Limit <= 0 {
		n.Limit = paginate.DefaultPageSize
	}
	if n.Page < 1 {
		n.Page = 1
	}

	q := gateway.Query{
		Page:    n.Page,
		Limit:   n.Limit,
		Status:  task.Status(n.Status),
		Keyword: n.Keyword,
	}
	if n.Track != "" {
		q.Track = task.ParseTrack(n.Track)
	}

	page, err := n.Gateway.ListTasks(ctx, q)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.TitleWithCount("Dispatch tasks", page.Total)
	pp.Tasks(page.Tasks)

	pager := paginate.New(n.Limit)
	pager.Set(page.Total, n.Page)
	pp.Pagination(pager.Info())
	return nil
}
