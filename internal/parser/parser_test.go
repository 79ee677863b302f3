package parser

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/cell"
	"github.com/dshills/auditscore/internal/logger"
	"github.com/dshills/auditscore/internal/normalize"
	"github.com/dshills/auditscore/internal/scoring"
)

var storeHeaders = []string{
	"Timestamp", "Store Name", "Store ID", "Circle", "Name of Auditor",
	"Is the store clean?", "Was customer denied?", "Please rate your overall experience?",
}

func storeRow() []cell.Cell {
	return cell.Row([]string{"2024-01-01", "Downtown", "STR1", "Mumbai", "J. Doe", "Yes", "No", "5/5"})
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

// --- Detection ---

func TestDetectAuditType(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    audit.Type
	}{
		{"xfe", []string{"Timestamp", "Name of Airtel XFE", "Score"}, audit.TypeXFE},
		{"unknown", []string{"Random", "Unrelated", "Columns"}, audit.TypeUnknown},
		{"store", storeHeaders, audit.TypeStore},
		{"store cro", []string{"CRO Code", "Question"}, audit.TypeStore},
		{"ilms", []string{"Web-Inquiry Number", "Did the advisor call back?"}, audit.TypeILMS},
		{"ilms ambassador", []string{"Did the AMBASSADOR visit?"}, audit.TypeILMS},
		{"store beats ilms", []string{"Did the advisor call?", "Store Name"}, audit.TypeStore},
		{"ilms beats xfe", []string{"Name of Airtel XFE", "Advisor remarks"}, audit.TypeILMS},
		{"empty", nil, audit.TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectAuditType(tt.headers); got != tt.want {
				t.Errorf("DetectAuditType(%v) = %q, want %q", tt.headers, got, tt.want)
			}
		})
	}
}

// --- Row parsing ---

func TestParseRowStoreScenario(t *testing.T) {
	if got := DetectAuditType(storeHeaders); got != audit.TypeStore {
		t.Fatalf("DetectAuditType = %q, want store", got)
	}

	rec := ParseRow(storeRow(), storeHeaders, "")
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Type != audit.TypeStore {
		t.Errorf("Type = %q, want store", rec.Type)
	}
	if rec.ID != "STR1" || rec.Name != "Downtown" {
		t.Errorf("ID/Name = %q/%q", rec.ID, rec.Name)
	}
	if rec.Circle != "Mum" {
		t.Errorf("Circle = %q, want Mum", rec.Circle)
	}
	if rec.AuditorName != "J. Doe" {
		t.Errorf("AuditorName = %q, want J. Doe", rec.AuditorName)
	}
	if rec.Status != audit.StatusCompleted {
		t.Errorf("Status = %q, want completed", rec.Status)
	}
	if rec.AuditDate == nil || rec.AuditDate.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("AuditDate = %v, want 2024-01-01", rec.AuditDate)
	}
	if rec.ScoreSource != audit.ScoreCalculated {
		t.Errorf("ScoreSource = %q, want calculated", rec.ScoreSource)
	}
	// Hygiene 100 and both inverted categories at 100 give a weighted 30,
	// blended with the 5/5 overall rating.
	if want := scoring.Blend(30, 100); rec.Score != want {
		t.Errorf("Score = %d, want %d", rec.Score, want)
	}
	if rec.Score != 51 {
		t.Errorf("Score = %d, want 51", rec.Score)
	}
	if len(rec.RawData) != len(storeHeaders) {
		t.Errorf("RawData has %d entries, want %d", len(rec.RawData), len(storeHeaders))
	}
	if rec.RawData["Is the store clean?"].String() != "Yes" {
		t.Error("RawData lost an answer")
	}
}

func TestExplicitScoreWins(t *testing.T) {
	headers := append(append([]string{}, storeHeaders...), "Total Score")
	row := append(storeRow(), cell.Text("85"))

	calculated := scoring.Calculate(audit.TypeStore, audit.NewAnswers(row, headers))
	if calculated == 85 {
		t.Fatal("fixture must calculate to something other than 85")
	}

	rec := ParseRow(row, headers, audit.TypeStore)
	if rec.Score != 85 {
		t.Errorf("Score = %d, want 85", rec.Score)
	}
	if rec.ScoreSource != audit.ScoreExplicit {
		t.Errorf("ScoreSource = %q, want explicit", rec.ScoreSource)
	}
}

func TestExplicitScoreClamped(t *testing.T) {
	tests := []struct {
		raw  cell.Cell
		want int
	}{
		{cell.Number(150), 100},
		{cell.Number(-20), 0},
		{cell.Text("150"), 100},
		{cell.Text("n/a"), 0},
		{cell.Text("92.4%"), 92},
	}
	for _, tt := range tests {
		t.Run(tt.raw.String(), func(t *testing.T) {
			rec := ParseRow([]cell.Cell{cell.Text("S1"), tt.raw}, []string{"Store ID", "Score"}, "")
			if rec.Score != tt.want {
				t.Errorf("Score = %d, want %d", rec.Score, tt.want)
			}
			if rec.ScoreSource != audit.ScoreExplicit {
				t.Errorf("ScoreSource = %q, want explicit", rec.ScoreSource)
			}
		})
	}
}

func TestClampIsLogged(t *testing.T) {
	log, logs := observed()
	p := New(WithLogger(log))
	p.ParseRow([]cell.Cell{cell.Text("S1"), cell.Number(150)}, []string{"Store ID", "Score"}, audit.TypeStore)

	found := false
	for _, e := range logs.FilterLevelExact(zapcore.WarnLevel).All() {
		if strings.Contains(e.Message, "clamped") {
			found = true
		}
	}
	if !found {
		t.Error("expected a warning about the clamped score")
	}
}

func TestBlankExplicitScoreFallsBackToCalculated(t *testing.T) {
	headers := []string{"Store ID", "Score", "Is the store clean?"}
	rec := ParseRow([]cell.Cell{cell.Text("S1"), cell.Empty(), cell.Text("Yes")}, headers, "")
	if rec.ScoreSource != audit.ScoreCalculated {
		t.Errorf("ScoreSource = %q, want calculated", rec.ScoreSource)
	}
	if want := scoring.Calculate(audit.TypeStore, rec.RawData); rec.Score != want {
		t.Errorf("Score = %d, want %d", rec.Score, want)
	}
}

func TestUnknownSheetUsesStoreRules(t *testing.T) {
	headers := []string{"Random", "Unrelated", "Columns"}
	if DetectAuditType(headers) != audit.TypeUnknown {
		t.Fatal("fixture headers should not be detected")
	}

	log, logs := observed()
	p := New(WithLogger(log), WithClock(fixedClock(1700000000000)))
	rec := p.ParseRow(cell.Row([]string{"a", "b", "c"}), headers, "")
	if rec == nil {
		t.Fatal("expected a record for an unrecognized sheet")
	}
	if rec.Type != audit.TypeStore {
		t.Errorf("Type = %q, want store", rec.Type)
	}
	if rec.ID != "STORE-NA-1700000000000" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Name != rec.ID {
		t.Errorf("Name = %q, want fallback to ID", rec.Name)
	}
	if logs.FilterMessageSnippet("unrecognized sheet").Len() == 0 {
		t.Error("expected a diagnostic for the unrecognized sheet")
	}
}

func TestParseRowEmpty(t *testing.T) {
	if rec := ParseRow([]cell.Cell{}, storeHeaders, ""); rec != nil {
		t.Errorf("ParseRow([]) = %+v, want nil", rec)
	}
	if rec := ParseRow(nil, storeHeaders, audit.TypeStore); rec != nil {
		t.Errorf("ParseRow(nil) = %+v, want nil", rec)
	}
}

func TestParseRowBlankCellsYieldRecord(t *testing.T) {
	p := New(WithClock(fixedClock(7)))
	blank := []cell.Cell{cell.Empty(), cell.Text("  "), cell.Empty()}
	rec := p.ParseRow(blank, storeHeaders, "")
	if rec == nil {
		t.Fatal("a row of blank cells must still produce a record")
	}
	if rec.ID != "STORE-NA-7" || rec.Name != rec.ID {
		t.Errorf("ID/Name = %q/%q, want STORE-NA-7 for both", rec.ID, rec.Name)
	}
	if rec.ScoreSource != audit.ScoreCalculated {
		t.Errorf("ScoreSource = %q, want calculated", rec.ScoreSource)
	}
}

func TestNameStandsInForMissingID(t *testing.T) {
	p := New(WithClock(fixedClock(9)))
	row := cell.Row([]string{"2024-01-01", "Downtown", "", "Mumbai", "J. Doe", "Yes", "No", "5/5"})
	rec := p.ParseRow(row, storeHeaders, "")
	if rec.ID != "Downtown" {
		t.Errorf("ID = %q, want the store name Downtown", rec.ID)
	}
	if rec.Name != "Downtown" {
		t.Errorf("Name = %q, want Downtown", rec.Name)
	}
}

func TestParseRowSparse(t *testing.T) {
	p := New(WithClock(fixedClock(42)))
	rec := p.ParseRow([]cell.Cell{cell.Empty(), cell.Empty(), cell.Empty(), cell.Text("Delhi & NCR")}, storeHeaders, "")
	if rec == nil {
		t.Fatal("sparse row must still produce a record")
	}
	if rec.ID != "STORE-DEL-42" {
		t.Errorf("ID = %q, want STORE-DEL-42", rec.ID)
	}
	if rec.AuditDate != nil {
		t.Errorf("AuditDate = %v, want nil", rec.AuditDate)
	}
	if rec.AuditorName != "" {
		t.Errorf("AuditorName = %q, want empty", rec.AuditorName)
	}
	if len(rec.RawData) != len(storeHeaders) {
		t.Errorf("short row should still key every header, got %d", len(rec.RawData))
	}
}

func TestSyntheticIDCollides(t *testing.T) {
	p := New(WithClock(fixedClock(1000)))
	headers := []string{"Circle", "Is the store clean?"}
	a := p.ParseRow(cell.Row([]string{"Mumbai", "Yes"}), headers, audit.TypeStore)
	b := p.ParseRow(cell.Row([]string{"Mumbai", "No"}), headers, audit.TypeStore)
	// Same type, circle and millisecond: the ids collide.
	if a.ID != b.ID {
		t.Errorf("expected colliding ids within one clock tick, got %q and %q", a.ID, b.ID)
	}

	ms := int64(1000)
	ticking := New(WithClock(func() time.Time { ms++; return time.UnixMilli(ms) }))
	c := ticking.ParseRow(cell.Row([]string{"Mumbai", "Yes"}), headers, audit.TypeStore)
	d := ticking.ParseRow(cell.Row([]string{"Mumbai", "Yes"}), headers, audit.TypeStore)
	if c.ID == d.ID {
		t.Errorf("ids should differ across clock ticks, both %q", c.ID)
	}
}

func TestSyntheticIDUnknownCircle(t *testing.T) {
	p := New(WithClock(fixedClock(5)))
	rec := p.ParseRow(cell.Row([]string{"Some New Region", "Yes"}), []string{"Circle", "Q"}, audit.TypeILMS)
	if rec.Circle != "Some New Region" {
		t.Errorf("Circle = %q, want passthrough", rec.Circle)
	}
	if rec.ID != "ILMS-Some_New_Region-5" {
		t.Errorf("ID = %q", rec.ID)
	}
}

func TestUnparseableDateOmitted(t *testing.T) {
	log, logs := observed()
	p := New(WithLogger(log))
	rec := p.ParseRow(cell.Row([]string{"yesterday", "S1"}), []string{"Timestamp", "Store ID"}, "")
	if rec.AuditDate != nil {
		t.Errorf("AuditDate = %v, want nil", rec.AuditDate)
	}
	if logs.FilterMessageSnippet("unparseable date").Len() != 1 {
		t.Error("expected one unparseable date diagnostic")
	}
}

func TestAuditDatePrefersDateColumn(t *testing.T) {
	headers := []string{"Timestamp", "Store ID", "Date of Visit"}
	rec := ParseRow(cell.Row([]string{"2024-01-05", "S1", "03/01/2024"}), headers, "")
	if rec.AuditDate == nil || rec.AuditDate.Format("2006-01-02") != "2024-01-03" {
		t.Errorf("AuditDate = %v, want 2024-01-03", rec.AuditDate)
	}
}

func TestAuditDateMonthFirst(t *testing.T) {
	headers := []string{"Store ID", "Date of Visit"}
	row := cell.Row([]string{"S1", "05/03/2024"})

	if rec := New().ParseRow(row, headers, ""); rec.AuditDate == nil || rec.AuditDate.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("day-first AuditDate = %v, want 2024-03-05", rec.AuditDate)
	}
	p := New(WithDateOrder(normalize.MonthFirst))
	if rec := p.ParseRow(row, headers, ""); rec.AuditDate == nil || rec.AuditDate.Format("2006-01-02") != "2024-05-03" {
		t.Errorf("month-first AuditDate = %v, want 2024-05-03", rec.AuditDate)
	}
	// Unknown orders leave the default in place.
	if rec := New(WithDateOrder("sideways")).ParseRow(row, headers, ""); rec.AuditDate.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("AuditDate = %v, want day-first 2024-03-05", rec.AuditDate)
	}
}

func TestExplicitTypeOverridesDetection(t *testing.T) {
	rec := ParseRow(storeRow(), storeHeaders, audit.TypeXFE)
	if rec.Type != audit.TypeXFE {
		t.Errorf("Type = %q, want xfe", rec.Type)
	}
}

func TestParseRowXFE(t *testing.T) {
	headers := []string{"Timestamp", "Name of Airtel XFE", "OLM ID", "Circle", "Was the XFE rude?", "Did the XFE explain the tariff?"}
	row := cell.Row([]string{"15/02/2024", "Asha", "OLM42", "west bengal", "No", "Yes"})
	rec := ParseRow(row, headers, "")
	if rec.Type != audit.TypeXFE {
		t.Fatalf("Type = %q, want xfe", rec.Type)
	}
	if rec.ID != "OLM42" || rec.Name != "Asha" || rec.Circle != "WB" {
		t.Errorf("got ID %q Name %q Circle %q", rec.ID, rec.Name, rec.Circle)
	}
	if want := scoring.Calculate(audit.TypeXFE, rec.RawData); rec.Score != want {
		t.Errorf("Score = %d, want %d", rec.Score, want)
	}
}

// --- Batch ---

func TestParseRows(t *testing.T) {
	rows := [][]cell.Cell{
		storeRow(),
		{},
		storeRow(),
		cell.Row([]string{"", "", "", "", "", "", "", ""}),
		cell.Row([]string{"2024-01-02", "Uptown", "STR2", "Delhi", "A. Roy", "No", "No", "poor"}),
	}
	p := New(WithClock(fixedClock(1)))
	records, stats := p.ParseRows(rows, storeHeaders, "")

	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	want := Stats{Rows: 5, Parsed: 4, Skipped: 1, Calculated: 4, Type: audit.TypeStore, Detected: true}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	// Duplicate rows are kept.
	if records[0].ID != "STR1" || records[1].ID != "STR1" {
		t.Errorf("duplicate rows should both be returned, got %q and %q", records[0].ID, records[1].ID)
	}
	// A blank row earns only the two inverted categories, 5 points each.
	if records[2].ID != "STORE-NA-1" || records[2].Score != 10 {
		t.Errorf("blank row = %q scored %d, want STORE-NA-1 scored 10", records[2].ID, records[2].Score)
	}
	if records[3].Circle != "DEL" {
		t.Errorf("Circle = %q, want DEL", records[3].Circle)
	}
}

func TestParseRowsExplicitType(t *testing.T) {
	_, stats := New().ParseRows([][]cell.Cell{storeRow()}, storeHeaders, audit.TypeILMS)
	if stats.Type != audit.TypeILMS || stats.Detected {
		t.Errorf("stats = %+v, want ilms not detected", stats)
	}
}

func TestScoreSourcePriority(t *testing.T) {
	if len(ScoreSourcePriority) != 2 ||
		ScoreSourcePriority[0] != audit.ScoreExplicit ||
		ScoreSourcePriority[1] != audit.ScoreCalculated {
		t.Errorf("ScoreSourcePriority = %v", ScoreSourcePriority)
	}
}
