// Package store keeps the client-side copy of the task list: the
// current page, the active filters, and an in-flight guard. Mutations
// emit typed events on a channel for Bubble Tea subscriptions, in the
// manner of an informer cache.
package store

import (
	"context"
	"errors"
	"net"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/paginate"
	"tableflip.dev/dispatch/pkg/task"
)

// Gateway is the slice of the HTTP client the store needs.
type Gateway interface {
	ListTasks(ctx context.Context, q gateway.Query) (gateway.Page, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	UpdateStatus(ctx context.Context, id string, status task.Status, extra map[string]any) error
}

// Filters narrows the task list. The zero value shows everything.
type Filters struct {
	Status  task.Status
	Track   task.Track
	Keyword string
}

// TaskStore holds one page of tasks. One logical mutator at a time: a
// load in flight makes page changes no-ops instead of queueing them.
type TaskStore struct {
	component ComponentID
	gw        Gateway
	pageSize  int

	mu      sync.Mutex
	tasks   []task.Task
	total   int
	page    int
	filters Filters
	loading bool

	pager   *paginate.Paginator
	eventCh chan tea.Msg
}

func New(gw Gateway, pageSize int, component ComponentID) *TaskStore {
	if component == "" {
		component = "taskstore"
	}
	if pageSize <= 0 {
		pageSize = paginate.DefaultPageSize
	}
	return &TaskStore{
		component: component,
		gw:        gw,
		pageSize:  pageSize,
		page:      1,
		pager:     paginate.New(pageSize),
		eventCh:   make(chan tea.Msg, 64),
	}
}

// Events exposes the event channel for Bubble Tea subscriptions.
func (s *TaskStore) Events() <-chan tea.Msg {
	return s.eventCh
}

func (s *TaskStore) emit(msg tea.Msg) {
	select {
	case s.eventCh <- msg:
	default:
	}
}

// begin flips the loading guard; it reports false when a load is
// already in flight.
func (s *TaskStore) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

// LoadTasks fetches the current page with the current filters. On
// failure the list is cleared rather than left stale: consumers get a
// LoadFailedMsg with a display message, then an empty DataLoadedMsg.
func (s *TaskStore) LoadTasks(ctx context.Context) error {
	if !s.begin() {
		return nil
	}
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.emit(LoadingFinishedMsg{Component: s.component})
	}()
	s.emit(LoadingStartedMsg{Component: s.component})

	s.mu.Lock()
	q := gateway.Query{
		Page:    s.page,
		Limit:   s.pageSize,
		Status:  s.filters.Status,
		Track:   s.filters.Track,
		Keyword: s.filters.Keyword,
	}
	s.mu.Unlock()

	page, err := s.gw.ListTasks(ctx, q)
	s.mu.Lock()
	if err != nil {
		s.tasks = nil
		s.total = 0
		s.pager.Set(0, 1)
		s.mu.Unlock()
		s.emit(LoadFailedMsg{Component: s.component, Err: err, Message: displayMessage(err)})
		s.emit(DataLoadedMsg{Component: s.component, Page: q.Page})
		return err
	}
	s.tasks = page.Tasks
	s.total = page.Total
	s.pager.Set(page.Total, s.page)
	current := s.page
	s.mu.Unlock()

	s.emit(DataLoadedMsg{Component: s.component, Tasks: cloneTasks(page.Tasks), Total: page.Total, Page: current})
	return nil
}

// SearchTasks replaces the filters, resets to the first page, and
// reloads.
func (s *TaskStore) SearchTasks(ctx context.Context, f Filters) error {
	s.mu.Lock()
	s.filters = f
	s.page = 1
	s.mu.Unlock()
	return s.LoadTasks(ctx)
}

// SetPage jumps to a page and reloads. Out-of-range pages and calls
// made while a load is in flight are no-ops; the return value reports
// whether a load was started.
func (s *TaskStore) SetPage(ctx context.Context, page int) bool {
	s.mu.Lock()
	if s.loading || page < 1 || page > s.pager.Info().TotalPages {
		s.mu.Unlock()
		return false
	}
	s.page = page
	s.mu.Unlock()
	_ = s.LoadTasks(ctx)
	return true
}

// TaskDetail fetches one task fresh from the server. A missing task is
// (nil, nil); other failures are real errors.
func (s *TaskStore) TaskDetail(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.gw.GetTask(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

// UpdateTaskStatus asks the server for a status change and, on success,
// patches the local copy in place so the list reflects it without a
// reload.
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, id string, status task.Status, extra map[string]any) error {
	if err := s.gw.UpdateStatus(ctx, id, status, extra); err != nil {
		return err
	}
	s.mu.Lock()
	var updated *task.Task
	for i := range s.tasks {
		if s.tasks[i].ID == id || s.tasks[i].TaskID == id {
			s.tasks[i].Status = status
			clone := s.tasks[i]
			updated = &clone
			break
		}
	}
	s.mu.Unlock()
	if updated != nil {
		s.emit(TaskUpdatedMsg{Component: s.component, Task: *updated})
	}
	return nil
}

// PaginationInfo reports the pager state for the footer.
func (s *TaskStore) PaginationInfo() paginate.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Info()
}

// Snapshot is the current page of tasks plus position. The slice is a
// copy; callers may keep it.
type Snapshot struct {
	Tasks   []task.Task
	Total   int
	Page    int
	Filters Filters
	Loading bool
}

func (s *TaskStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tasks:   cloneTasks(s.tasks),
		Total:   s.total,
		Page:    s.page,
		Filters: s.filters,
		Loading: s.loading,
	}
}

func cloneTasks(in []task.Task) []task.Task {
	if in == nil {
		return nil
	}
	out := make([]task.Task, len(in))
	copy(out, in)
	return out
}

// displayMessage turns a load error into a line fit for the UI;
// timeouts get a friendlier phrasing than the raw error.
func displayMessage(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "The request timed out, check the connection and retry"
	case errors.Is(err, gateway.ErrSessionExpired):
		return "Session expired, log in again"
	default:
		return "Failed to load tasks: " + err.Error()
	}
}
