package vehicle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tableflip.dev/dispatch/pkg/gateway"
	"tableflip.dev/dispatch/pkg/task"
)

func TestValidateHappyPath(t *testing.T) {
	form := ConfirmForm{
		ManifestNumber: " LS20240115001 ",
		DispatchNumber: "PC20240115001",
		LicensePlate:   "京A12345",
		Note:           "night run",
	}
	if errs := form.Validate(); errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.ManifestNumber != "LS20240115001" {
		t.Errorf("manifest not trimmed: %q", form.ManifestNumber)
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	form := ConfirmForm{LicensePlate: "ABC123"}
	errs := form.Validate()
	for _, f := range []Field{FieldManifestNumber, FieldDispatchNumber, FieldLicensePlate} {
		if errs[f] == "" {
			t.Errorf("missing error for %s: %v", f, errs)
		}
	}
}

func TestPlatePattern(t *testing.T) {
	good := []string{"京A12345", "沪B1A2B3", "粤C123456"}
	bad := []string{"A12345", "京a12345", "京A1234", "京A1234567", "京A 12345"}
	for _, p := range good {
		form := ConfirmForm{ManifestNumber: "m", DispatchNumber: "d", LicensePlate: p}
		if errs := form.Validate(); errs[FieldLicensePlate] != "" {
			t.Errorf("%q rejected: %v", p, errs)
		}
	}
	for _, p := range bad {
		form := ConfirmForm{ManifestNumber: "m", DispatchNumber: "d", LicensePlate: p}
		if errs := form.Validate(); errs[FieldLicensePlate] == "" {
			t.Errorf("%q accepted", p)
		}
	}
}

func TestNoteLengthLimit(t *testing.T) {
	long := make([]rune, 501)
	for i := range long {
		long[i] = '记'
	}
	form := ConfirmForm{ManifestNumber: "m", DispatchNumber: "d", LicensePlate: "京A12345", Note: string(long)}
	if errs := form.Validate(); errs[FieldNote] == "" {
		t.Error("501-rune note accepted")
	}
	form.Note = string(long[:500])
	if errs := form.Validate(); errs[FieldNote] != "" {
		t.Errorf("500-rune note rejected: %v", errs)
	}
}

func TestCheckCapacity(t *testing.T) {
	req := func(v float64) *float64 { return &v }

	if w := CheckCapacity(&task.VehicleRecord{ActualVolume: 40}, req(55)); w == nil {
		t.Error("under-capacity vehicle produced no warning")
	} else if w.Actual != 40 || w.Required != 55 {
		t.Errorf("warning = %+v", w)
	}
	if w := CheckCapacity(&task.VehicleRecord{ActualVolume: 55}, req(55)); w != nil {
		t.Errorf("exact capacity warned: %+v", w)
	}
	if w := CheckCapacity(&task.VehicleRecord{ActualVolume: 60}, req(55)); w != nil {
		t.Errorf("ample capacity warned: %+v", w)
	}
	if w := CheckCapacity(nil, req(55)); w != nil {
		t.Error("nil record warned")
	}
	if w := CheckCapacity(&task.VehicleRecord{ActualVolume: 40}, nil); w != nil {
		t.Error("unknown requirement warned")
	}
}

func TestFieldToClearPrefersCarriageNumber(t *testing.T) {
	if got := FieldToClear(ConfirmForm{LicensePlate: "京A12345", CarriageNumber: "C-881"}); got != FieldCarriageNumber {
		t.Errorf("got %s", got)
	}
	if got := FieldToClear(ConfirmForm{LicensePlate: "京A12345"}); got != FieldLicensePlate {
		t.Errorf("got %s", got)
	}
}

// fakeSearcher records queries and serves canned results.
type fakeSearcher struct {
	mu      sync.Mutex
	records []task.VehicleRecord
	err     error
	queries []string
	kinds   []gateway.VehicleSearchKind
}

func (f *fakeSearcher) SearchVehicles(ctx context.Context, query string, kind gateway.VehicleSearchKind, limit int) ([]task.VehicleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.kinds = append(f.kinds, kind)
	return f.records, f.err
}

func TestResolveCarriageNumberWins(t *testing.T) {
	fs := &fakeSearcher{records: []task.VehicleRecord{
		{LicensePlate: "京A12345", CarriageNumber: "C-881", ActualVolume: 42},
	}}
	l := NewLookup(fs)

	got, err := l.Resolve(context.Background(), "京A12345", "C-881")
	if err != nil || got == nil {
		t.Fatalf("Resolve: (%v, %v)", got, err)
	}
	if got.ActualVolume != 42 {
		t.Errorf("volume = %v", got.ActualVolume)
	}
	if fs.kinds[0] != gateway.ByCarriageNumber || fs.queries[0] != "C-881" {
		t.Errorf("searched %s %q, want carriage_number C-881", fs.kinds[0], fs.queries[0])
	}
}

func TestResolveFallsBackToPlate(t *testing.T) {
	fs := &fakeSearcher{records: []task.VehicleRecord{{LicensePlate: "京A12345", ActualVolume: 30}}}
	l := NewLookup(fs)

	if _, err := l.Resolve(context.Background(), "京A12345", ""); err != nil {
		t.Fatal(err)
	}
	if fs.kinds[0] != gateway.ByLicensePlate {
		t.Errorf("kind = %s", fs.kinds[0])
	}
}

func TestSearchSkipsShortQueries(t *testing.T) {
	fs := &fakeSearcher{}
	l := NewLookup(fs)

	got, err := l.Search(context.Background(), "京", gateway.ByLicensePlate)
	if err != nil || got != nil {
		t.Fatalf("short query: (%v, %v)", got, err)
	}
	if len(fs.queries) != 0 {
		t.Error("short query hit the network")
	}
}

func TestLookupTokensAreLastWriterWins(t *testing.T) {
	l := NewLookup(&fakeSearcher{})

	first := l.Next()
	second := l.Next()
	if l.Current(first) {
		t.Error("superseded token still current")
	}
	if !l.Current(second) {
		t.Error("newest token not current")
	}
}

// fakeConfirmer fails with a scripted error, nil for success.
type fakeConfirmer struct {
	err   error
	calls int
	last  gateway.ConfirmRequest
}

func (f *fakeConfirmer) ConfirmWithVehicle(ctx context.Context, id string, req gateway.ConfirmRequest) error {
	f.calls++
	f.last = req
	return f.err
}

func validForm() *ConfirmForm {
	return &ConfirmForm{ManifestNumber: "LS1", DispatchNumber: "PC1", LicensePlate: "京A12345"}
}

func TestSubmitAlreadyRespondedNeverHitsNetwork(t *testing.T) {
	fc := &fakeConfirmer{}
	for _, status := range []task.Status{task.StatusSupplierRespond, task.StatusWorkshopVerified, task.StatusSupplierConfirm, task.StatusClosed} {
		_, err := Submit(context.Background(), fc, &task.Task{ID: "1", Status: status}, validForm(), nil)
		if !errors.Is(err, ErrAlreadyConfirmed) {
			t.Errorf("%s: err = %v, want ErrAlreadyConfirmed", status, err)
		}
	}
	if fc.calls != 0 {
		t.Errorf("network hit %d times", fc.calls)
	}
}

func TestSubmitMapsConflictCodes(t *testing.T) {
	cases := []struct {
		code  int
		field Field
	}{
		{4003, FieldManifestNumber},
		{4004, FieldDispatchNumber},
	}
	for _, tc := range cases {
		fc := &fakeConfirmer{err: &gateway.APIError{Code: tc.code, Message: "duplicate"}}
		errs, err := Submit(context.Background(), fc, &task.Task{ID: "1", Status: task.StatusPendingSupplier}, validForm(), nil)
		if err != nil {
			t.Fatalf("code %d: err = %v", tc.code, err)
		}
		if errs[tc.field] != "duplicate" {
			t.Errorf("code %d: field errors = %v", tc.code, errs)
		}
	}
}

func TestSubmitOtherErrorsPassThrough(t *testing.T) {
	fc := &fakeConfirmer{err: &gateway.APIError{Code: 4002, Message: "not yours"}}
	errs, err := Submit(context.Background(), fc, &task.Task{ID: "1", Status: task.StatusPendingSupplier}, validForm(), nil)
	if errs.Any() {
		t.Errorf("unexpected field errors: %v", errs)
	}
	if gateway.CodeOf(err) != 4002 {
		t.Errorf("err = %v", err)
	}
}

func TestSubmitCarriesResolvedVolume(t *testing.T) {
	fc := &fakeConfirmer{}
	resolved := &task.VehicleRecord{ActualVolume: 42.5}
	if _, err := Submit(context.Background(), fc, &task.Task{ID: "1", Status: task.StatusPendingSupplier}, validForm(), resolved); err != nil {
		t.Fatal(err)
	}
	if fc.last.ActualVolume != "42.5" {
		t.Errorf("ActualVolume = %q", fc.last.ActualVolume)
	}
}

func TestDraftsRoundTrip(t *testing.T) {
	drafts, err := NewDrafts(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	form := ConfirmForm{ManifestNumber: "LS1", LicensePlate: "京A12345", Note: "partial"}
	if err := drafts.Save("T-001", form); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := drafts.Load("T-001")
	if err != nil || got == nil {
		t.Fatalf("Load: (%v, %v)", got, err)
	}
	if *got != form {
		t.Errorf("loaded %+v, want %+v", *got, form)
	}

	if missing, err := drafts.Load("T-002"); err != nil || missing != nil {
		t.Errorf("missing draft = (%v, %v), want (nil, nil)", missing, err)
	}

	if err := drafts.Drop("T-001"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if gone, _ := drafts.Load("T-001"); gone != nil {
		t.Error("draft survived Drop")
	}
	if err := drafts.Drop("T-001"); err != nil {
		t.Errorf("second Drop: %v", err)
	}
}
