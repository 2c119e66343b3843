package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tableflip.dev/dispatch/pkg/task"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithBackoff(0), WithRetries(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestListTasksObjectShape(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dispatch/tasks" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "pending_supplier_response" {
			t.Errorf("status filter = %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"list":[{"id":"1","task_id":"T-1","track":"A","status":"pending_supplier_response"}],"total":41,"page":2,"limit":10}}`))
	}))

	page, err := c.ListTasks(context.Background(), Query{Page: 2, Limit: 10, Status: task.StatusPendingSupplier})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if page.Total != 41 || len(page.Tasks) != 1 {
		t.Fatalf("page = %d tasks / total %d", len(page.Tasks), page.Total)
	}
	if page.Tasks[0].TaskID != "T-1" {
		t.Errorf("TaskID = %q", page.Tasks[0].TaskID)
	}
}

func TestListTasksArrayShape(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"id":"1","task_id":"T-1"},{"id":"2","task_id":"T-2"}]}`))
	}))

	page, err := c.ListTasks(context.Background(), Query{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if page.Total != 2 || len(page.Tasks) != 2 {
		t.Fatalf("page = %d tasks / total %d, want 2/2", len(page.Tasks), page.Total)
	}
}

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))

	if _, err := c.ListTasks(context.Background(), Query{}); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"code":4001,"message":"bad volume"}}`))
	}))

	_, err := c.ListTasks(context.Background(), Query{})
	if CodeOf(err) != 4001 {
		t.Fatalf("err = %v, want code 4001", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestUnauthorizedIsSessionExpired(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.UserInfo(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":4004,"message":"task missing"}}`))
	}))

	_, err := c.GetTask(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEnvelopeFailureOn200(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":{"code":4002,"message":"not yours"}}`))
	}))

	_, err := c.GetTask(context.Background(), "1")
	if CodeOf(err) != 4002 {
		t.Fatalf("err = %v, want code 4002", err)
	}
}

func TestAuditTaskWireVerbs(t *testing.T) {
	var body string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		body = string(buf[:n])
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))

	if err := c.AuditTask(context.Background(), "T-1", true, "ok"); err != nil {
		t.Fatalf("AuditTask: %v", err)
	}
	if want := `"audit_result":"通过"`; !strings.Contains(body, want) {
		t.Errorf("body %q missing %q", body, want)
	}

	if err := c.AuditTask(context.Background(), "T-1", false, "no"); err != nil {
		t.Fatalf("AuditTask: %v", err)
	}
	if want := `"audit_result":"拒绝"`; !strings.Contains(body, want) {
		t.Errorf("body %q missing %q", body, want)
	}
}

func TestUpdateStatusSplicesExtraFields(t *testing.T) {
	var body string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		body = string(buf[:n])
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))

	err := c.UpdateStatus(context.Background(), "T-1", task.StatusWorkshopVerified, map[string]any{"note": "left dock 3"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	for _, want := range []string{`"status":"workshop_verified"`, `"note":"left dock 3"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestContextCancelStopsRetries(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// A nonzero backoff forces the retry loop to hit the deadline.
	c.backoff = 50 * time.Millisecond
	_, err := c.ListTasks(ctx, Query{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestConfirmWithVehicleBody(t *testing.T) {
	var body string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dispatch/tasks/42/confirm-with-vehicle" {
			t.Errorf("path = %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))

	err := c.ConfirmWithVehicle(context.Background(), "42", ConfirmRequest{
		ManifestNumber: "LS20240115001",
		DispatchNumber: "PC20240115001",
		LicensePlate:   "京A12345",
		Note:           "partial load",
	})
	if err != nil {
		t.Fatalf("ConfirmWithVehicle: %v", err)
	}

	for _, want := range []string{
		`"task_id":"42"`,
		`"response_type":"accept"`,
		`"notes":"partial load"`,
		`"manifest_number":"LS20240115001"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
	if strings.Contains(body, `"note"`) && !strings.Contains(body, `"notes"`) {
		t.Errorf("note went out under the wrong key: %s", body)
	}
}

func TestListCompaniesBareArray(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/companies" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":1,"name":"North Rail Freight"},{"id":2,"name":"Harbor Logistics"}]`))
	}))

	names, err := c.ListCompanies(context.Background())
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if len(names) != 2 || names[0] != "North Rail Freight" || names[1] != "Harbor Logistics" {
		t.Errorf("names = %v", names)
	}
}
