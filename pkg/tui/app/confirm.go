package teaui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dispatch/pkg/task"
	"tableflip.dev/dispatch/pkg/vehicle"
)

// confirmModel is the vehicle-info confirmation overlay. It owns the
// form fields, the debounced registry lookup, and the under-capacity
// reconfirmation; the host model owns when it opens and closes.
type confirmModel struct {
	lookup    *vehicle.Lookup
	confirmer vehicle.Confirmer
	task      *task.Task

	order  []vehicle.Field
	inputs map[vehicle.Field]*textinput.Model
	focus  int

	errs    vehicle.FieldErrors
	formErr string

	token        uint64
	resolved     *task.VehicleRecord
	warning      *vehicle.CapacityWarning
	warnOpen     bool
	warnAccepted bool

	submitting bool
	done       bool
}

type lookupTickMsg struct{ token uint64 }

type volumeResolvedMsg struct {
	token  uint64
	record *task.VehicleRecord
	err    error
}

type submitResultMsg struct {
	errs vehicle.FieldErrors
	err  error
}

var confirmFieldOrder = []vehicle.Field{
	vehicle.FieldManifestNumber,
	vehicle.FieldDispatchNumber,
	vehicle.FieldLicensePlate,
	vehicle.FieldCarriageNumber,
	vehicle.FieldNote,
}

func newConfirmModel(lookup *vehicle.Lookup) confirmModel {
	return confirmModel{lookup: lookup}
}

// open resets the overlay for a task.
func (c confirmModel) open(confirmer vehicle.Confirmer, t *task.Task) confirmModel {
	inputs := make(map[vehicle.Field]*textinput.Model, len(confirmFieldOrder))
	for _, f := range confirmFieldOrder {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 128
		if f == vehicle.FieldNote {
			ti.CharLimit = 500
		}
		switch f {
		case vehicle.FieldManifestNumber:
			ti.Placeholder = "LS20240115001"
		case vehicle.FieldDispatchNumber:
			ti.Placeholder = "PC20240115001"
		case vehicle.FieldLicensePlate:
			ti.Placeholder = "京A12345"
		}
		inputs[f] = &ti
	}
	c.confirmer = confirmer
	c.task = t
	c.order = confirmFieldOrder
	c.inputs = inputs
	c.focus = 0
	c.errs = nil
	c.formErr = ""
	c.resolved = nil
	c.warning = nil
	c.warnOpen = false
	c.warnAccepted = false
	c.submitting = false
	c.done = false
	return c
}

// seed pre-fills the form from a saved draft.
func (c *confirmModel) seed(form vehicle.ConfirmForm) {
	set := func(f vehicle.Field, v string) {
		if in, ok := c.inputs[f]; ok {
			in.SetValue(v)
		}
	}
	set(vehicle.FieldManifestNumber, form.ManifestNumber)
	set(vehicle.FieldDispatchNumber, form.DispatchNumber)
	set(vehicle.FieldLicensePlate, form.LicensePlate)
	set(vehicle.FieldCarriageNumber, form.CarriageNumber)
	set(vehicle.FieldNote, form.Note)
}

func (c confirmModel) form() vehicle.ConfirmForm {
	get := func(f vehicle.Field) string {
		if in, ok := c.inputs[f]; ok {
			return in.Value()
		}
		return ""
	}
	return vehicle.ConfirmForm{
		ManifestNumber: get(vehicle.FieldManifestNumber),
		DispatchNumber: get(vehicle.FieldDispatchNumber),
		LicensePlate:   get(vehicle.FieldLicensePlate),
		CarriageNumber: get(vehicle.FieldCarriageNumber),
		Note:           get(vehicle.FieldNote),
	}
}

func (c confirmModel) warningOpen() bool { return c.warnOpen }

func (c confirmModel) focusCmd() tea.Cmd {
	if len(c.order) == 0 {
		return nil
	}
	return c.inputs[c.order[c.focus]].Focus()
}

func (c *confirmModel) moveFocus(delta int) tea.Cmd {
	c.inputs[c.order[c.focus]].Blur()
	c.focus = (c.focus + delta + len(c.order)) % len(c.order)
	return c.inputs[c.order[c.focus]].Focus()
}

func (c *confirmModel) focusField(f vehicle.Field) tea.Cmd {
	for i, name := range c.order {
		if name == f {
			c.inputs[c.order[c.focus]].Blur()
			c.focus = i
			return c.inputs[name].Focus()
		}
	}
	return nil
}

// handleKey consumes keys while the overlay is up.
func (c confirmModel) handleKey(ctx context.Context, msg tea.KeyPressMsg) (confirmModel, tea.Cmd) {
	if c.warnOpen {
		switch msg.String() {
		case "y", "Y", "enter":
			c.warnOpen = false
			c.warnAccepted = true
			c.submitting = true
			return c, c.submitCmd(ctx)
		case "n", "N", "esc":
			// Declining clears the identifier that picked the vehicle
			// and puts the cursor back on it.
			c.warnOpen = false
			c.warning = nil
			c.resolved = nil
			field := vehicle.FieldToClear(c.form())
			c.inputs[field].Reset()
			return c, c.focusField(field)
		}
		return c, nil
	}

	switch msg.String() {
	case "tab", "down":
		return c, c.moveFocus(1)
	case "shift+tab", "up":
		return c, c.moveFocus(-1)
	case "enter":
		if c.submitting {
			return c, nil
		}
		if c.warning != nil && !c.warnAccepted {
			c.warnOpen = true
			return c, nil
		}
		c.submitting = true
		return c, c.submitCmd(ctx)
	}

	field := c.order[c.focus]
	in := c.inputs[field]
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() == before {
		return c, cmd
	}

	delete(c.errs, field)
	c.formErr = ""

	// Identifier edits restart the debounce window; the token claimed
	// here supersedes any lookup already in flight.
	if field == vehicle.FieldLicensePlate || field == vehicle.FieldCarriageNumber {
		c.resolved = nil
		c.warning = nil
		c.warnAccepted = false
		token := c.lookup.Next()
		c.token = token
		tick := tea.Tick(vehicle.DebounceInterval, func(time.Time) tea.Msg {
			return lookupTickMsg{token: token}
		})
		return c, tea.Batch(cmd, tick)
	}
	return c, cmd
}

// update consumes the overlay's async messages.
func (c confirmModel) update(ctx context.Context, msg tea.Msg) (confirmModel, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupTickMsg:
		if !c.lookup.Current(msg.token) {
			return c, nil
		}
		form := c.form()
		token := msg.token
		return c, func() tea.Msg {
			rec, err := c.lookup.Resolve(ctx, form.LicensePlate, form.CarriageNumber)
			return volumeResolvedMsg{token: token, record: rec, err: err}
		}

	case volumeResolvedMsg:
		if !c.lookup.Current(msg.token) {
			return c, nil
		}
		if msg.err != nil {
			// A failed lookup is not a form error; the volume just
			// stays unknown.
			return c, nil
		}
		c.resolved = msg.record
		if c.task != nil {
			c.warning = vehicle.CheckCapacity(msg.record, c.task.Volume)
		}
		return c, nil

	case submitResultMsg:
		c.submitting = false
		if msg.errs.Any() {
			c.errs = msg.errs
			return c, c.focusFirstError()
		}
		if msg.err != nil {
			if errors.Is(msg.err, vehicle.ErrAlreadyConfirmed) {
				c.formErr = "this task already has a supplier response"
			} else {
				c.formErr = msg.err.Error()
			}
			return c, nil
		}
		c.done = true
		return c, nil
	}
	return c, nil
}

func (c confirmModel) submitCmd(ctx context.Context) tea.Cmd {
	form := c.form()
	t := c.task
	confirmer := c.confirmer
	resolved := c.resolved
	return func() tea.Msg {
		f := form
		errs, err := vehicle.Submit(ctx, confirmer, t, &f, resolved)
		return submitResultMsg{errs: errs, err: err}
	}
}

func (c *confirmModel) focusFirstError() tea.Cmd {
	for _, f := range c.order {
		if c.errs[f] != "" {
			return c.focusField(f)
		}
	}
	return nil
}

func (c confirmModel) volumeLine() string {
	if c.resolved == nil {
		return "volume: —"
	}
	return fmt.Sprintf("volume: %.1fm³ (%s)", c.resolved.ActualVolume, c.resolved.VehicleType)
}
