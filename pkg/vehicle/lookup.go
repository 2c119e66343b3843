package vehicle

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/task"
)

// DebounceInterval is how long an identifier field should sit quiet
// before a lookup fires.
const DebounceInterval = 300 * time.Millisecond

// MinQueryLen is the shortest identifier prefix worth searching.
const MinQueryLen = 2

// Searcher is the slice of the gateway the lookup needs.
type Searcher interface {
	SearchVehicles(ctx context.Context, query string, kind gateway.VehicleSearchKind, limit int) ([]task.VehicleRecord, error)
}

// Lookup resolves vehicle volumes from the registry. Results are
// ordered by a monotonic token: a response from a superseded request
// must be dropped, so only the last keystroke's answer lands.
type Lookup struct {
	searcher Searcher
	token    atomic.Uint64
}

func NewLookup(s Searcher) *Lookup {
	return &Lookup{searcher: s}
}

// Next claims a token for a new request, invalidating all earlier ones.
func (l *Lookup) Next() uint64 {
	return l.token.Add(1)
}

// Current reports whether token still names the newest request.
func (l *Lookup) Current(token uint64) bool {
	return l.token.Load() == token
}

// Search queries the registry by one identifier kind. Queries below
// MinQueryLen return nothing without touching the network.
func (l *Lookup) Search(ctx context.Context, query string, kind gateway.VehicleSearchKind) ([]task.VehicleRecord, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLen {
		return nil, nil
	}
	return l.searcher.SearchVehicles(ctx, query, kind, 10)
}

// Resolve finds the registry record for the form's identifiers. A
// filled carriage number always wins over the license plate. An exact
// identifier match is preferred; otherwise the first result stands in.
// No match is (nil, nil).
func (l *Lookup) Resolve(ctx context.Context, plate, carriage string) (*task.VehicleRecord, error) {
	query, kind := strings.TrimSpace(plate), gateway.ByLicensePlate
	if c := strings.TrimSpace(carriage); c != "" {
		query, kind = c, gateway.ByCarriageNumber
	}

	records, err := l.Search(ctx, query, kind)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	for i := range records {
		if identifier(records[i], kind) == query {
			return &records[i], nil
		}
	}
	return &records[0], nil
}

func identifier(r task.VehicleRecord, kind gateway.VehicleSearchKind) string {
	if kind == gateway.ByCarriageNumber {
		return r.CarriageNumber
	}
	return r.LicensePlate
}
