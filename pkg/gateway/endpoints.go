package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/sjson"

	"tableflip.dev/dispatch/pkg/task"
)

// Query filters the task list. Zero values mean "no filter"; Page and
// Limit are defaulted server-side when zero.
type Query struct {
	Page    int
	Limit   int
	Status  task.Status
	Track   task.Track
	Keyword string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Track != "" {
		v.Set("dispatch_track", string(q.Track))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	return v
}

// Page is one page of tasks plus the server's total count.
type Page struct {
	Tasks []task.Task
	Total int
}

// ListTasks fetches a page of tasks. The server answers with either a
// bare array or a {list, total} object; both shapes normalize to Page
// here and nowhere else.
func (c *Client) ListTasks(ctx context.Context, q Query) (Page, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/dispatch/tasks", q.values(), nil)
	if err != nil {
		return Page{}, err
	}

	listJSON := data.Raw
	total := -1
	if data.IsObject() {
		listJSON = data.Get("list").Raw
		total = int(data.Get("total").Int())
	}

	var tasks []task.Task
	if listJSON != "" {
		if err := json.Unmarshal([]byte(listJSON), &tasks); err != nil {
			return Page{}, fmt.Errorf("gateway: decoding task list: %w", err)
		}
	}
	if total < 0 {
		total = len(tasks)
	}
	return Page{Tasks: tasks, Total: total}, nil
}

// GetTask fetches one task with its history. Missing tasks surface as
// ErrNotFound, distinct from auth and transport failures.
func (c *Client) GetTask(ctx context.Context, id string) (*task.Task, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/dispatch/tasks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var t task.Task
	if err := json.Unmarshal([]byte(data.Raw), &t); err != nil {
		return nil, fmt.Errorf("gateway: decoding task %s: %w", id, err)
	}
	return &t, nil
}

// UpdateStatus moves a task to status. Extra fields (a rejection note,
// a departure time) are spliced into the same body.
func (c *Client) UpdateStatus(ctx context.Context, id string, status task.Status, extra map[string]any) error {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}
	for k, v := range extra {
		if body, err = sjson.SetBytes(body, k, v); err != nil {
			return fmt.Errorf("gateway: building status body: %w", err)
		}
	}
	_, err = c.do(ctx, http.MethodPut, "/api/dispatch/tasks/"+url.PathEscape(id)+"/status", nil, body)
	return err
}

// SubmitTask sends a draft task into dispatcher review.
func (c *Client) SubmitTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/dispatch/tasks/"+url.PathEscape(id)+"/submit", nil, nil)
	return err
}

// AuditTask records a dispatcher review verdict. The server speaks the
// original audit vocabulary on the wire.
func (c *Client) AuditTask(ctx context.Context, id string, approve bool, note string) error {
	verdict := "拒绝"
	if approve {
		verdict = "通过"
	}
	body, err := json.Marshal(map[string]string{
		"audit_result": verdict,
		"audit_note":   note,
	})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/api/dispatch/tasks/"+url.PathEscape(id)+"/audit", nil, body)
	return err
}

// TaskHistory fetches the status-change trail for a task, oldest first.
func (c *Client) TaskHistory(ctx context.Context, id string) ([]task.HistoryRecord, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/dispatch/tasks/"+url.PathEscape(id)+"/history", nil, nil)
	if err != nil {
		return nil, err
	}
	raw := data.Raw
	if data.IsObject() {
		raw = data.Get("history").Raw
	}
	var records []task.HistoryRecord
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return nil, fmt.Errorf("gateway: decoding history for %s: %w", id, err)
		}
	}
	return records, nil
}

// ConfirmRequest is the supplier's vehicle-info response to a task.
// TaskID and ResponseType are filled by ConfirmWithVehicle; the server
// expects both in the body even though the task is in the path.
type ConfirmRequest struct {
	ManifestNumber string `json:"manifest_number"`
	DispatchNumber string `json:"dispatch_number"`
	LicensePlate   string `json:"license_plate"`
	CarriageNumber string `json:"carriage_number,omitempty"`
	ActualVolume   string `json:"actual_volume,omitempty"`
	Note           string `json:"notes,omitempty"`
	TaskID         string `json:"task_id"`
	ResponseType   string `json:"response_type"`
}

// ConfirmWithVehicle submits the supplier response. Conflict codes 4003
// (manifest number) and 4004 (dispatch number) pass through as
// APIErrors for field-level mapping.
func (c *Client) ConfirmWithVehicle(ctx context.Context, id string, req ConfirmRequest) error {
	req.TaskID = id
	req.ResponseType = "accept"
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/api/dispatch/tasks/"+url.PathEscape(id)+"/confirm-with-vehicle", nil, body)
	return err
}

// VehicleSearchKind selects which identifier a vehicle search matches.
type VehicleSearchKind string

const (
	ByLicensePlate   VehicleSearchKind = "license_plate"
	ByCarriageNumber VehicleSearchKind = "carriage_number"
)

// SearchVehicles looks registered vehicles up by plate or carriage
// number prefix.
func (c *Client) SearchVehicles(ctx context.Context, query string, kind VehicleSearchKind, limit int) ([]task.VehicleRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	v := url.Values{}
	v.Set("query", query)
	v.Set("type", string(kind))
	v.Set("limit", strconv.Itoa(limit))

	data, err := c.do(ctx, http.MethodGet, "/api/dispatch/vehicle-info/search", v, nil)
	if err != nil {
		return nil, err
	}
	raw := data.Raw
	if data.IsObject() {
		raw = data.Get("list").Raw
	}
	var records []task.VehicleRecord
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return nil, fmt.Errorf("gateway: decoding vehicle search: %w", err)
		}
	}
	return records, nil
}

// UserInfo fetches the logged-in user, or ErrSessionExpired when the
// cookie no longer holds.
func (c *Client) UserInfo(ctx context.Context) (*task.UserSession, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/user/info", nil, nil)
	if err != nil {
		return nil, err
	}
	var u task.UserSession
	if err := json.Unmarshal([]byte(data.Raw), &u); err != nil {
		return nil, fmt.Errorf("gateway: decoding user info: %w", err)
	}
	return &u, nil
}

// ListCompanies fetches the carrier companies available for filters.
func (c *Client) ListCompanies(ctx context.Context) ([]string, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/companies", nil, nil)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, item := range data.Array() {
		if item.IsObject() {
			names = append(names, item.Get("name").String())
		} else {
			names = append(names, item.String())
		}
	}
	return names, nil
}
