package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dispatch/pkg/flow"
	"tableflip.dev/dispatch/pkg/paginate"
	"tableflip.dev/dispatch/pkg/task"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)
	switch count {
	case 1:
		_, _ = c.Println(" task")
	default:
		_, _ = c.Println(" tasks")
	}
}

// Tasks renders one page of tasks as a table.
func (pp *PrettyPrint) Tasks(tasks []task.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 40
	if pp.ShowID {
		table.AddRow("ID", "TASK", "TRACK", "STATUS", "ROUTE", "REQUIRED", "CARRIER")
	} else {
		table.AddRow("TASK", "TRACK", "STATUS", "ROUTE", "REQUIRED", "CARRIER")
	}
	now := time.Now()
	for i := range tasks {
		t := &tasks[i]
		required := t.RequiredDate
		if u := t.UrgencyAt(now); u == task.UrgencyOverdue || u == task.UrgencyDueToday {
			required = fmt.Sprintf("%s (%s)", t.RequiredDate, u)
		}
		if pp.ShowID {
			table.AddRow(t.ID, t.TaskID, string(t.Track), t.Status.Label(), t.RouteName, required, t.CarrierCompany)
		} else {
			table.AddRow(t.TaskID, string(t.Track), t.Status.Label(), t.RouteName, required, t.CarrierCompany)
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

// Detail renders one task with its progress rail and history.
func (pp *PrettyPrint) Detail(t *task.Task) {
	pp.Title(t.Title())

	faint := color.New(color.Faint)
	plain := color.New()
	_, _ = plain.Printf("status: %s   track: %s\n", t.Status.Label(), t.Track)
	if t.CarrierCompany != "" {
		_, _ = faint.Printf("carrier: %s\n", t.CarrierCompany)
	}
	if t.StartBureau != "" || t.EndBureau != "" {
		_, _ = faint.Printf("route: %s → %s\n", t.StartBureau, t.EndBureau)
	}
	_, _ = plain.Printf("weight: %s   volume: %s\n", measure(t.Weight, "t"), measure(t.Volume, "m³"))
	if t.RequiredDate != "" {
		_, _ = plain.Printf("required: %s\n", t.RequiredDate)
	}
	pp.NewLine()
	pp.Steps(flow.Progress(t.Track, t.Status))

	if len(t.History) > 0 {
		pp.NewLine()
		pp.Title("History")
		pp.History(t.History)
	}
}

// Steps renders a progress rail, one step per line.
func (pp *PrettyPrint) Steps(steps []flow.Step) {
	done := color.New(color.FgGreen)
	active := color.New(color.Bold, color.FgHiYellow)
	pending := color.New(color.Faint)

	for _, s := range steps {
		switch s.State {
		case flow.StepCompleted:
			_, _ = done.Printf("  ✔ %s\n", s.Label)
		case flow.StepActive:
			_, _ = active.Printf("  ▶ %s\n", s.Label)
		default:
			_, _ = pending.Printf("  ○ %s\n", s.Label)
		}
	}
}

// Actions lists what the caller can do with the task right now.
func (pp *PrettyPrint) Actions(actions []flow.Action) {
	if len(actions) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println("  waiting on the next handler")
		return
	}
	for _, a := range actions {
		notes := make([]string, 0, 2)
		if a.NeedsReason {
			notes = append(notes, "needs a note")
		}
		if a.NeedsVehicle {
			notes = append(notes, "needs vehicle info")
		}
		suffix := ""
		if len(notes) > 0 {
			suffix = " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Printf("  %s%s\n", a.Label, suffix)
	}
}

// History renders the audit trail oldest first.
func (pp *PrettyPrint) History(records []task.HistoryRecord) {
	faint := color.New(color.Faint)
	for _, r := range records {
		fmt.Printf("  %s\n", r.Title)
		meta := r.Timestamp
		if r.Operator != "" {
			meta = strings.TrimSpace(meta + "  " + r.Operator)
		}
		if meta != "" {
			_, _ = faint.Printf("    %s\n", meta)
		}
		if r.Description != "" {
			_, _ = faint.Printf("    %s\n", r.Description)
		}
	}
}

// Vehicles renders registry search results as a table.
func (pp *PrettyPrint) Vehicles(records []task.VehicleRecord) {
	if len(records) == 0 {
		_, _ = color.New(color.Faint).Println("no vehicles matched")
		return
	}
	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("PLATE", "CARRIAGE", "TYPE", "VOLUME", "SUPPLIER")
	for _, r := range records {
		table.AddRow(r.LicensePlate, r.CarriageNumber, r.VehicleType,
			fmt.Sprintf("%.1fm³", r.ActualVolume), r.Supplier)
	}
	fmt.Println(table)
}

// Pagination renders the footer line under a task table.
func (pp *PrettyPrint) Pagination(info paginate.Info) {
	f := color.New(color.Faint)
	_, _ = f.Printf("page %d of %d · %d tasks\n", info.CurrentPage, info.TotalPages, info.TotalItems)
}

func measure(v *float64, unit string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}
