package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"rentabilidad/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type fakeSheets struct {
	mu       sync.Mutex
	titles   []string
	added    []string
	cleared  []string
	written  map[string][][]any
	failWith int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != 0 {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, f.failWith)
		return
	}
	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.added = append(f.added, rq.AddSheet.Properties.Title)
				f.titles = append(f.titles, rq.AddSheet.Properties.Title)
			}
		}
		_, _ = io.WriteString(w, `{"spreadsheetId":"sid","replies":[{}]}`)
	case strings.HasSuffix(path, ":clear"):
		rng := path[strings.Index(path, "/values/")+len("/values/") : len(path)-len(":clear")]
		f.cleared = append(f.cleared, rng)
		_, _ = io.WriteString(w, `{"spreadsheetId":"sid"}`)
	case strings.Contains(path, "/values/") && r.Method == http.MethodPut:
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		if f.written == nil {
			f.written = map[string][][]any{}
		}
		f.written[rng] = vr.Values
		_, _ = io.WriteString(w, `{"spreadsheetId":"sid"}`)
	case r.Method == http.MethodGet:
		ss := gsheet.Spreadsheet{SpreadsheetId: "sid"}
		for _, t := range f.titles {
			ss.Sheets = append(ss.Sheets, &gsheet.Sheet{Properties: &gsheet.SheetProperties{Title: t}})
		}
		_ = json.NewEncoder(w).Encode(ss)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &Client{svc: svc, spreadsheetID: "sid"}
}

func sampleReport() (core.Business, core.Report) {
	b := core.Business{ID: "lz1abc123456", Name: "Tienda: Centro"}
	r := core.Report{
		BusinessID:   b.ID,
		BusinessName: b.Name,
		Summary: core.PeriodSummary{
			Start: core.NewDate(2025, 1, 1), End: core.NewDate(2025, 1, 8), Days: 7,
			TotalSales: core.Money{Cents: 1000}, Profit: core.Money{Cents: 1000}, ProfitMargin: 100,
		},
		Daily: []core.DailyStats{{Date: core.NewDate(2025, 1, 8), TotalSales: core.Money{Cents: 1000},
			TopProduct: &core.TopProduct{Name: "Pan"}}},
		Products: []core.ProductStats{{Name: "Pan", TotalSold: 4}},
		Expenses: []core.CategoryAmount{{Name: "Alquiler", Amount: core.Money{Cents: 500}}},
	}
	return b, r
}

func TestExportReportCreatesSheetOnce(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Other"}}
	c := newTestClient(t, fake)
	b, r := sampleReport()

	ref, err := c.ExportReport(context.Background(), b, r)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "Tienda Centro - 123456"
	if len(fake.added) != 1 || fake.added[0] != want {
		t.Fatalf("expected sheet %q to be added, got %v", want, fake.added)
	}
	if !strings.HasPrefix(ref, "'"+want+"'!A1:G") {
		t.Fatalf("unexpected ref %q", ref)
	}
	if len(fake.cleared) != 1 || len(fake.written) != 1 {
		t.Fatalf("expected one clear and one write, got %v / %d", fake.cleared, len(fake.written))
	}

	if _, err := c.ExportReport(context.Background(), b, r); err != nil {
		t.Fatal(err)
	}
	if len(fake.added) != 1 {
		t.Fatalf("existing sheet must be reused, added %v", fake.added)
	}
}

func TestExportReportPropagatesAPIError(t *testing.T) {
	fake := &fakeSheets{failWith: http.StatusForbidden}
	c := newTestClient(t, fake)
	b, r := sampleReport()
	if _, err := c.ExportReport(context.Background(), b, r); err == nil {
		t.Fatal("expected error")
	}
}

func TestExportReportNilService(t *testing.T) {
	c := &Client{spreadsheetID: "sid"}
	b, r := sampleReport()
	if _, err := c.ExportReport(context.Background(), b, r); err == nil {
		t.Fatal("expected error for uninitialized service")
	}
}

func TestNewMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{ServiceAccountJSON: "{}"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Options{SpreadsheetID: "sid"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSheetTitle(t *testing.T) {
	cases := []struct {
		b    core.Business
		want string
	}{
		{core.Business{ID: "abc", Name: "Bar"}, "Bar - abc"},
		{core.Business{ID: "0123456789", Name: "a/b [c]"}, "a b c - 456789"},
		{core.Business{ID: "x", Name: "  "}, "Negocio - x"},
	}
	for _, tc := range cases {
		if got := sheetTitle(tc.b); got != tc.want {
			t.Errorf("sheetTitle(%q) = %q, want %q", tc.b.Name, got, tc.want)
		}
	}
}

func TestReportRowsLayout(t *testing.T) {
	_, r := sampleReport()
	rows := reportRows(r)
	if rows[0][1] != "Tienda: Centro" || rows[0][3] != "2025-01-01" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[3][0] != 10.0 || rows[3][3] != 100.0 {
		t.Fatalf("unexpected summary %v", rows[3])
	}
	daily := rows[6]
	if daily[0] != "2025-01-08" || daily[6] != "Pan" {
		t.Fatalf("unexpected daily row %v", daily)
	}
	last := rows[len(rows)-1]
	if last[0] != "Alquiler" || last[1] != 5.0 {
		t.Fatalf("unexpected expense row %v", last)
	}
	if lastColumn(rows) != "G" {
		t.Fatalf("expected widest column G, got %s", lastColumn(rows))
	}
}

func TestReportRowsEscapeFormulaText(t *testing.T) {
	_, r := sampleReport()
	r.BusinessName = "@SUM(A1:A9)"
	r.Daily[0].TopProduct.Name = "+1+1"
	r.Products[0].Name = `=HYPERLINK("http://evil")`
	r.Expenses[0].Name = "-2"

	rows := reportRows(r)
	checks := []struct {
		got  any
		want string
	}{
		{rows[0][1], "'@SUM(A1:A9)"},
		{rows[6][6], "'+1+1"},
		{rows[9][0], `'=HYPERLINK("http://evil")`},
		{rows[len(rows)-1][0], "'-2"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("cell = %v, want %q", c.got, c.want)
		}
	}
}

func TestTextCell(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"Pan":       "Pan",
		"Café = té": "Café = té",
		"=1+1":      "'=1+1",
		"\tx":       "'\tx",
		"-":         "'-",
	}
	for in, want := range cases {
		if got := textCell(in); got != want {
			t.Errorf("textCell(%q) = %q, want %q", in, got, want)
		}
	}
}
