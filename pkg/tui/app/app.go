// Package teaui hosts the Bubble Tea program for the dispatch TUI.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dispatch/pkg/flow"
	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/paginate"
	"tableflip.dev/dispatch/pkg/session"
	"tableflip.dev/dispatch/pkg/store"
	"tableflip.dev/dispatch/pkg/task"
	"tableflip.dev/dispatch/pkg/tui/theme"
	"tableflip.dev/dispatch/pkg/vehicle"
)

// Gateway is the slice of the HTTP client the UI drives directly; list
// loading and status updates go through the store instead.
type Gateway interface {
	vehicle.Searcher
	vehicle.Confirmer
	AuditTask(ctx context.Context, id string, approve bool, note string) error
}

type mode int

const (
	modeList mode = iota
	modeDetail
	modePrompt
	modeReason
	modeConfirm
)

type taskItem struct{ t task.Task }

func (it taskItem) Title() string       { return it.t.Title() }
func (it taskItem) Description() string { return it.t.Description() }
func (it taskItem) FilterValue() string { return it.t.TaskID + " " + it.t.RouteName }

// Model contains UI state.
type Model struct {
	ctx    context.Context
	store  *store.TaskStore
	gw     Gateway
	sess   *session.Session
	drafts *vehicle.Drafts
	theme  theme.Theme

	mode    mode
	list    list.Model
	tasks   []task.Task
	pager   paginate.Info
	loading bool

	detail  *task.Task
	actions []flow.Action

	pending *flow.Action
	reason  textinput.Model

	confirm confirmModel

	status  string
	errLine string

	termWidth  int
	termHeight int
}

// New creates the UI model. The session is resolved before the program
// starts; every role decision flows from it.
func New(ctx context.Context, st *store.TaskStore, gw Gateway, sess *session.Session, drafts *vehicle.Drafts) Model {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 60, 20)
	l.Title = "Dispatch tasks"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	ti := textinput.New()
	ti.Placeholder = "Reason"
	ti.CharLimit = 500
	ti.Prompt = ""

	return Model{
		ctx:     ctx,
		store:   st,
		gw:      gw,
		sess:    sess,
		drafts:  drafts,
		theme:   theme.Default(),
		mode:    modeList,
		list:    l,
		reason:  ti,
		confirm: newConfirmModel(vehicle.NewLookup(gw)),
		status:  "j/k move · enter open · n/p page · r reload · q quit",
	}
}

// Init kicks off the first page load and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForStoreEvent())
}

// waitForStoreEvent pumps one store event into the program; Update
// re-arms it after every receipt.
func (m Model) waitForStoreEvent() tea.Cmd {
	ch := m.store.Events()
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.store.LoadTasks(m.ctx)
		return nil
	}
}

func (m Model) setPageCmd(page int) tea.Cmd {
	return func() tea.Msg {
		m.store.SetPage(m.ctx, page)
		return nil
	}
}

type detailLoadedMsg struct {
	task *task.Task
	id   string
}

func (m Model) detailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.store.TaskDetail(m.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{task: t, id: id}
	}
}

type actionDoneMsg struct {
	label string
	err   error
}

type errMsg struct{ err error }

// performCmd runs a non-vehicle action: audits go through the audit
// endpoint, everything else is a plain status update.
func (m Model) performCmd(a flow.Action, note string) tea.Cmd {
	t := m.detail
	return func() tea.Msg {
		var err error
		switch a.ID {
		case flow.ActionApprove:
			err = m.gw.AuditTask(m.ctx, t.ID, true, note)
		case flow.ActionReject:
			err = m.gw.AuditTask(m.ctx, t.ID, false, note)
		default:
			var extra map[string]any
			if note != "" {
				extra = map[string]any{"note": note}
			}
			err = m.store.UpdateTaskStatus(m.ctx, t.ID, a.Target, extra)
		}
		return actionDoneMsg{label: a.Label, err: err}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		return m, nil

	case store.LoadingStartedMsg:
		m.loading = true
		cmds = append(cmds, m.waitForStoreEvent())
	case store.LoadingFinishedMsg:
		m.loading = false
		cmds = append(cmds, m.waitForStoreEvent())
	case store.DataLoadedMsg:
		m.tasks = msg.Tasks
		items := make([]list.Item, 0, len(msg.Tasks))
		for _, t := range msg.Tasks {
			items = append(items, taskItem{t: t})
		}
		m.list.SetItems(items)
		m.pager = m.store.PaginationInfo()
		cmds = append(cmds, m.waitForStoreEvent())
	case store.LoadFailedMsg:
		if errors.Is(msg.Err, gateway.ErrSessionExpired) {
			m.errLine = msg.Message
			return m, tea.Quit
		}
		m.errLine = msg.Message
		cmds = append(cmds, m.waitForStoreEvent())
	case store.TaskUpdatedMsg:
		if m.detail != nil && m.detail.ID == msg.Task.ID {
			m.detail.Status = msg.Task.Status
			m.actions = flow.LegalActions(m.sess.Role(), m.detail.Status)
		}
		cmds = append(cmds, m.waitForStoreEvent())

	case detailLoadedMsg:
		if msg.task == nil {
			m.status = fmt.Sprintf("task %s no longer exists", msg.id)
			m.mode = modeList
			break
		}
		m.detail = msg.task
		m.actions = flow.LegalActions(m.sess.Role(), m.detail.Status)
		m.mode = modeDetail
		m.errLine = ""
	case actionDoneMsg:
		if msg.err != nil {
			m.errLine = actionError(msg.err)
			break
		}
		m.status = msg.label + " done"
		m.errLine = ""
		m.pending = nil
		if m.detail != nil {
			cmds = append(cmds, m.detailCmd(m.detail.ID))
		}
		cmds = append(cmds, m.loadCmd())
	case errMsg:
		m.errLine = actionError(msg.err)

	case lookupTickMsg, volumeResolvedMsg, submitResultMsg:
		if m.mode == modeConfirm {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.update(m.ctx, msg)
			cmds = append(cmds, cmd)
			if m.confirm.done {
				m.mode = modeDetail
				m.status = "Response confirmed"
				if m.drafts != nil && m.detail != nil {
					_ = m.drafts.Drop(m.detail.ID)
				}
				if m.detail != nil {
					cmds = append(cmds, m.detailCmd(m.detail.ID))
				}
				cmds = append(cmds, m.loadCmd())
			}
		}

	case tea.KeyPressMsg:
		cmd := m.handleKey(msg)
		cmds = append(cmds, cmd)
	}

	if m.mode == modeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msgForList(msg, m.mode))
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// msgForList keeps navigation keys flowing to the list without leaking
// keys consumed by other modes.
func msgForList(msg tea.Msg, mode mode) tea.Msg {
	if _, ok := msg.(tea.KeyPressMsg); ok && mode != modeList {
		return nil
	}
	return msg
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	switch m.mode {
	case modeList:
		switch key {
		case "q", "ctrl+c":
			return tea.Quit
		case "r":
			return m.loadCmd()
		case "n", "right":
			if m.pager.HasNext {
				return m.setPageCmd(m.pager.CurrentPage + 1)
			}
		case "p", "left":
			if m.pager.HasPrev {
				return m.setPageCmd(m.pager.CurrentPage - 1)
			}
		case "enter":
			if it, ok := m.list.SelectedItem().(taskItem); ok {
				return m.detailCmd(it.t.ID)
			}
		}

	case modeDetail:
		switch key {
		case "q", "esc":
			m.mode = modeList
			m.detail = nil
			return nil
		case "ctrl+c":
			return tea.Quit
		default:
			if i := actionIndex(key); i >= 0 && i < len(m.actions) {
				return m.startAction(m.actions[i])
			}
		}

	case modePrompt:
		switch key {
		case "y", "Y", "enter":
			a := *m.pending
			m.mode = modeDetail
			return m.performCmd(a, "")
		case "n", "N", "esc":
			m.mode = modeDetail
			m.pending = nil
			m.status = "cancelled"
		}

	case modeReason:
		switch key {
		case "enter":
			note := strings.TrimSpace(m.reason.Value())
			if note == "" {
				m.errLine = "a reason is required"
				return nil
			}
			a := *m.pending
			m.mode = modeDetail
			m.reason.Reset()
			m.reason.Blur()
			return m.performCmd(a, note)
		case "esc":
			m.mode = modeDetail
			m.pending = nil
			m.reason.Reset()
			m.reason.Blur()
			m.status = "cancelled"
		default:
			var cmd tea.Cmd
			m.reason, cmd = m.reason.Update(msg)
			return cmd
		}

	case modeConfirm:
		if key == "ctrl+c" {
			return tea.Quit
		}
		if key == "esc" && !m.confirm.warningOpen() {
			if m.drafts != nil && m.detail != nil {
				_ = m.drafts.Save(m.detail.ID, m.confirm.form())
			}
			m.mode = modeDetail
			m.status = "confirmation saved as draft"
			return nil
		}
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.handleKey(m.ctx, msg)
		return cmd
	}
	return nil
}

// startAction routes a chosen action to its input flow: confirmation
// prompt, reason input, or the vehicle form.
func (m *Model) startAction(a flow.Action) tea.Cmd {
	action := a
	m.pending = &action
	switch {
	case a.NeedsVehicle:
		if m.detail == nil {
			return nil
		}
		m.confirm = m.confirm.open(m.gw, m.detail)
		if m.drafts != nil {
			if draft, err := m.drafts.Load(m.detail.ID); err == nil && draft != nil {
				m.confirm.seed(*draft)
			}
		}
		m.mode = modeConfirm
		return m.confirm.focusCmd()
	case a.NeedsReason:
		m.mode = modeReason
		m.reason.Focus()
		return nil
	case a.Confirm:
		m.mode = modePrompt
		return nil
	default:
		m.mode = modeDetail
		return m.performCmd(a, "")
	}
}

func (m *Model) applySizes() {
	w := m.termWidth
	if w <= 0 {
		w = 80
	}
	h := m.termHeight
	if h <= 0 {
		h = 24
	}
	m.list.SetSize(min(w-4, 70), max(h-6, 5))
}

// actionIndex maps keys 1..9 to action slots.
func actionIndex(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1')
	}
	return -1
}

// actionError renders an action failure for the status line.
func actionError(err error) string {
	switch {
	case errors.Is(err, gateway.ErrSessionExpired):
		return "session expired, log in again"
	case errors.Is(err, gateway.ErrNotFound):
		return "the task no longer exists"
	case errors.Is(err, vehicle.ErrAlreadyConfirmed):
		return "this task already has a supplier response"
	default:
		return err.Error()
	}
}
