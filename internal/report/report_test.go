package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/cell"
)

func rec(id string, t audit.Type, circle string, score int, src audit.ScoreSource) *audit.Record {
	return &audit.Record{
		ID:          id,
		Name:        id,
		Type:        t,
		Circle:      circle,
		Status:      audit.StatusCompleted,
		Score:       score,
		ScoreSource: src,
		RawData:     audit.Answers{"Is the store clean?": cell.Text("Yes")},
	}
}

func sample() []*audit.Record {
	return []*audit.Record{
		rec("S3", audit.TypeStore, "Mum", 90, audit.ScoreCalculated),
		rec("S1", audit.TypeStore, "DEL", 40, audit.ScoreExplicit),
		rec("X1", audit.TypeXFE, "Mum", 70, audit.ScoreCalculated),
		rec("S2", audit.TypeStore, "", 40, audit.ScoreCalculated),
	}
}

// --- Fatal ---

func TestIsFatal(t *testing.T) {
	tests := []struct {
		score, threshold int
		want             bool
	}{
		{69, 70, true},
		{70, 70, false},
		{0, 0, false},
		{0, 1, true},
		{100, 100, false},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.score, tt.threshold); got != tt.want {
			t.Errorf("IsFatal(%d, %d) = %v, want %v", tt.score, tt.threshold, got, tt.want)
		}
	}
}

// --- Sort ---

func TestSortEntries(t *testing.T) {
	var entries []Entry
	for _, r := range sample() {
		entries = append(entries, Entry{Record: *r})
	}
	SortEntries(entries)

	expected := []string{"S1", "S2", "X1", "S3"}
	for i, id := range expected {
		if entries[i].ID != id {
			t.Errorf("position %d: got ID %s, want %s", i, entries[i].ID, id)
		}
	}
}

// --- Summary ---

func TestComputeSummary(t *testing.T) {
	var entries []Entry
	for _, r := range sample() {
		entries = append(entries, Entry{Record: *r})
	}
	s := ComputeSummary(entries, 6, DefaultFatalThreshold)

	if s.Rows != 6 || s.Parsed != 4 || s.Skipped != 2 {
		t.Errorf("rows/parsed/skipped = %d/%d/%d", s.Rows, s.Parsed, s.Skipped)
	}
	if s.Explicit != 1 || s.Calculated != 3 {
		t.Errorf("explicit/calculated = %d/%d", s.Explicit, s.Calculated)
	}
	if s.AverageScore != 60 {
		t.Errorf("AverageScore = %v, want 60", s.AverageScore)
	}
	if s.FatalCount != 2 || s.FatalThreshold != 70 {
		t.Errorf("fatal = %d below %d", s.FatalCount, s.FatalThreshold)
	}

	wantTypes := []Group{
		{Key: "store", Count: 3, AverageScore: 56.7, FatalCount: 2},
		{Key: "xfe", Count: 1, AverageScore: 70, FatalCount: 0},
	}
	if len(s.ByType) != len(wantTypes) {
		t.Fatalf("ByType = %+v", s.ByType)
	}
	for i, g := range wantTypes {
		if s.ByType[i] != g {
			t.Errorf("ByType[%d] = %+v, want %+v", i, s.ByType[i], g)
		}
	}

	wantCircles := []string{"DEL", "Mum", "unassigned"}
	if len(s.ByCircle) != len(wantCircles) {
		t.Fatalf("ByCircle = %+v", s.ByCircle)
	}
	for i, k := range wantCircles {
		if s.ByCircle[i].Key != k {
			t.Errorf("ByCircle[%d].Key = %q, want %q", i, s.ByCircle[i].Key, k)
		}
	}
	if mum := s.ByCircle[1]; mum.Count != 2 || mum.AverageScore != 80 {
		t.Errorf("Mum group = %+v", mum)
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := ComputeSummary(nil, 3, DefaultFatalThreshold)
	if s.Parsed != 0 || s.Skipped != 3 || s.AverageScore != 0 {
		t.Errorf("summary = %+v", s)
	}
	if s.ByType == nil || s.ByCircle == nil {
		t.Error("groups should be empty slices, not nil")
	}
}

// --- Build ---

func TestNew(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	in := Input{File: "audits.csv", Hash: "sha256:abc", AuditType: audit.TypeStore, Detected: true}
	r := New("auditscore", "1.0", in, sample(), Options{
		Rows:           4,
		FatalThreshold: DefaultFatalThreshold,
		Breakdowns:     true,
		Now:            func() time.Time { return now },
	})

	if _, err := uuid.Parse(r.BatchID); err != nil {
		t.Errorf("BatchID %q is not a uuid: %v", r.BatchID, err)
	}
	if !r.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v", r.GeneratedAt)
	}
	if len(r.Records) != 4 || r.Records[0].ID != "S1" {
		t.Fatalf("records not sorted: %+v", r.Records)
	}
	if !r.Records[0].Fatal || r.Records[3].Fatal {
		t.Error("fatal flags not set from threshold")
	}
	for _, e := range r.Records {
		if e.Breakdown == nil {
			t.Errorf("%s: missing breakdown", e.ID)
		}
	}
	if r.Summary.Parsed != 4 || r.Summary.Skipped != 0 {
		t.Errorf("summary = %+v", r.Summary)
	}

	other := New("auditscore", "1.0", in, sample(), Options{Rows: 4})
	if other.BatchID == r.BatchID {
		t.Error("batch ids should differ between runs")
	}
	if other.Records[0].Breakdown != nil {
		t.Error("breakdowns should be omitted unless requested")
	}
}

func TestEntryJSONFlattensRecord(t *testing.T) {
	e := Entry{Record: *rec("S1", audit.TypeStore, "Mum", 40, audit.ScoreExplicit), Fatal: true}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"id":"S1"`, `"audit_type":"store"`, `"score_source":"explicit"`, `"fatal":true`, `"raw_data":{`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "breakdown") {
		t.Error("nil breakdown should be omitted")
	}
}
