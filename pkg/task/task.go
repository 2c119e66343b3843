package task

import (
	"fmt"
	"strings"
	"time"
)

// Track selects which dispatch flow a task moves through. Track A runs
// through a regional dispatcher review; track B is dispatched directly.
type Track string

const (
	TrackA Track = "A"
	TrackB Track = "B"
)

func (t Track) Valid() bool {
	return t == TrackA || t == TrackB
}

// ParseTrack accepts the wire spellings seen from the server ("A", "a",
// "track_a", ...) and falls back to TrackA for anything unrecognized.
func ParseTrack(s string) Track {
	switch strings.ToUpper(strings.TrimPrefix(strings.ToLower(s), "track_")) {
	case "B":
		return TrackB
	default:
		return TrackA
	}
}

// Status is a task lifecycle status. The set is fixed by the server;
// anything else is treated as unknown and rendered degraded, never
// rejected.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusPendingReview    Status = "pending_dispatcher_review"
	StatusPendingSupplier  Status = "pending_supplier_response"
	StatusSupplierRespond  Status = "supplier_responded"
	StatusWorkshopVerified Status = "workshop_verified"
	StatusSupplierConfirm  Status = "supplier_confirmed"
	StatusClosed           Status = "closed"
	StatusCancelled        Status = "cancelled"
)

func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusPendingReview,
		StatusPendingSupplier,
		StatusSupplierRespond,
		StatusWorkshopVerified,
		StatusSupplierConfirm,
		StatusClosed,
		StatusCancelled,
	}
}

func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave this status.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPendingReview:
		return "Pending dispatcher review"
	case StatusPendingSupplier:
		return "Pending supplier response"
	case StatusSupplierRespond:
		return "Supplier responded"
	case StatusWorkshopVerified:
		return "Workshop verified"
	case StatusSupplierConfirm:
		return "Supplier confirmed"
	case StatusClosed:
		return "Closed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Role is the caller's position in the dispatch flow.
type Role string

const (
	RoleSuperAdmin         Role = "super_admin"
	RoleRegionalDispatcher Role = "regional_dispatcher"
	RoleWorkshopDispatcher Role = "workshop_dispatcher"
	RoleSupplier           Role = "supplier"
	RoleAccountant         Role = "accountant"
)

// Dispatcher reports whether the role carries regional review rights.
func (r Role) Dispatcher() bool {
	return r == RoleSuperAdmin || r == RoleRegionalDispatcher
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleRegionalDispatcher, RoleWorkshopDispatcher, RoleSupplier, RoleAccountant:
		return true
	}
	return false
}

// Task is one dispatch task as the server reports it. Weight and Volume
// are pointers because the server omits them on tasks that have not been
// measured; render a dash, never zero, for a nil value.
type Task struct {
	ID             string          `json:"id"`
	TaskID         string          `json:"task_id"`
	Track          Track           `json:"track"`
	Status         Status          `json:"status"`
	Weight         *float64        `json:"weight,omitempty"`
	Volume         *float64        `json:"volume,omitempty"`
	RequiredDate   string          `json:"required_date,omitempty"`
	CarrierCompany string          `json:"carrier_company,omitempty"`
	StartBureau    string          `json:"start_bureau,omitempty"`
	EndBureau      string          `json:"end_bureau,omitempty"`
	RouteName      string          `json:"route_name,omitempty"`
	ManifestNumber string          `json:"manifest_number,omitempty"`
	DispatchNumber string          `json:"dispatch_number,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	History        []HistoryRecord `json:"history,omitempty"`
}

// HistoryRecord is one entry in a task's audit trail, newest last.
type HistoryRecord struct {
	Title       string `json:"title"`
	Operator    string `json:"operator,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Description string `json:"description,omitempty"`
}

// Urgency buckets a task by how close its required date is.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyUpcoming
	UrgencyDueToday
	UrgencyOverdue
)

func (u Urgency) String() string {
	switch u {
	case UrgencyUpcoming:
		return "upcoming"
	case UrgencyDueToday:
		return "due today"
	case UrgencyOverdue:
		return "overdue"
	default:
		return ""
	}
}

// UrgencyAt derives the urgency bucket relative to now. Unparseable or
// empty dates yield UrgencyNone; closed and cancelled tasks are never
// urgent.
func (t *Task) UrgencyAt(now time.Time) Urgency {
	if t.RequiredDate == "" || t.Status.Terminal() {
		return UrgencyNone
	}
	due, err := time.ParseInLocation("2006-01-02", t.RequiredDate, now.Location())
	if err != nil {
		return UrgencyNone
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case due.Before(today):
		return UrgencyOverdue
	case due.Equal(today):
		return UrgencyDueToday
	default:
		return UrgencyUpcoming
	}
}

// Title and Description make Task usable directly as a list item.
func (t *Task) Title() string {
	if t.RouteName != "" {
		return fmt.Sprintf("%s  %s", t.TaskID, t.RouteName)
	}
	return t.TaskID
}

func (t *Task) Description() string {
	return fmt.Sprintf("%s · track %s", t.Status.Label(), t.Track)
}

// VehicleRecord is a registered vehicle as returned by the vehicle
// search endpoint.
type VehicleRecord struct {
	ID             string  `json:"id,omitempty"`
	LicensePlate   string  `json:"license_plate"`
	CarriageNumber string  `json:"carriage_number,omitempty"`
	ActualVolume   float64 `json:"actual_volume,omitempty"`
	VehicleType    string  `json:"vehicle_type,omitempty"`
	Supplier       string  `json:"supplier,omitempty"`
}

// UserSession is the authenticated caller as reported by /user/info.
type UserSession struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Company  string `json:"company,omitempty"`
	Bureau   string `json:"bureau,omitempty"`
}
