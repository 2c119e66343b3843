package store

import (
	"fmt"

	"tableflip.dev/dispatch/pkg/task"
)

// ComponentID identifies the store instance emitting events, so a UI
// hosting several stores can route messages.
type ComponentID string

// LoadingStartedMsg is emitted when a page fetch begins.
type LoadingStartedMsg struct {
	Component ComponentID
}

func (m LoadingStartedMsg) Describe() string {
	return fmt.Sprintf("component:%q loading", m.Component)
}

// LoadingFinishedMsg is emitted when a page fetch ends, success or not.
type LoadingFinishedMsg struct {
	Component ComponentID
}

func (m LoadingFinishedMsg) Describe() string {
	return fmt.Sprintf("component:%q done", m.Component)
}

// DataLoadedMsg carries the freshly loaded page. After a failed load it
// still fires with an empty slice so consumers drop stale rows.
type DataLoadedMsg struct {
	Component ComponentID
	Tasks     []task.Task
	Total     int
	Page      int
}

func (m DataLoadedMsg) Describe() string {
	return fmt.Sprintf("component:%q tasks:%d total:%d page:%d", m.Component, len(m.Tasks), m.Total, m.Page)
}

// LoadFailedMsg reports a load error with a message fit for display.
type LoadFailedMsg struct {
	Component ComponentID
	Err       error
	Message   string
}

func (m LoadFailedMsg) Describe() string {
	return fmt.Sprintf("component:%q error:%q", m.Component, m.Message)
}

// TaskUpdatedMsg announces a successful status change applied to the
// local copy of a task.
type TaskUpdatedMsg struct {
	Component ComponentID
	Task      task.Task
}

func (m TaskUpdatedMsg) Describe() string {
	return fmt.Sprintf("component:%q task:%q status:%q", m.Component, m.Task.TaskID, m.Task.Status)
}
