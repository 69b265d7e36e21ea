package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/gridview/internal/config"
	"github.com/JonMunkholm/gridview/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		View: config.ViewConfig{
			PageSize:          2,
			MultiSelect:       true,
			Locale:            "en",
			ParallelThreshold: 20000,
			SessionTTL:        time.Hour,
			MaxSessions:       10,
		},
		Export: config.ExportConfig{
			Delimiter:     ",",
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
		},
	}
}

func fruitCatalog(t *testing.T) *core.Catalog {
	t.Helper()
	c := core.NewCatalog()
	err := c.Register(core.Dataset{
		Key:   "fruit",
		Group: "csv",
		Label: "Fruit",
		IDKey: "sku",
		Columns: []core.Column{
			{Key: "sku", Label: "SKU"},
			{Key: "name", Label: "Name", Sortable: true, Filterable: true},
			{Key: "color", Label: "Color", Filterable: true},
			{Key: "qty", Label: "Qty", Sortable: true, Align: core.AlignRight},
		},
		Rows: []core.Row{
			{"sku": core.String("A1"), "name": core.String("Cherry"), "color": core.String("red"), "qty": core.Number(12)},
			{"sku": core.String("A2"), "name": core.String("apple"), "color": core.String("red"), "qty": core.Number(3)},
			{"sku": core.String("A3"), "name": core.String("Banana"), "color": core.String("yellow"), "qty": core.Number(7)},
			{"sku": core.String("A4"), "name": core.String("lime"), "color": core.String("green"), "qty": core.Number(1)},
			{"sku": core.String("A#5"), "name": core.String("Date, dried"), "color": core.String("brown"), "qty": core.Null()},
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return c
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s := NewServer(fruitCatalog(t), cfg)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) viewResponse {
	t.Helper()
	var resp struct {
		ID      string           `json:"id"`
		Dataset core.DatasetInfo `json:"dataset"`
		View    struct {
			Rows []struct {
				ID       core.RowID     `json:"id"`
				Index    int            `json:"index"`
				Cells    map[string]any `json:"cells"`
				Selected bool           `json:"selected"`
				Expanded bool           `json:"expanded"`
			} `json:"rows"`
			TotalCount          int                 `json:"totalCount"`
			FilteredCount       int                 `json:"filteredCount"`
			PageCount           int                 `json:"pageCount"`
			PageIndex           int                 `json:"pageIndex"`
			PageSize            int                 `json:"pageSize"`
			Search              string              `json:"search"`
			Filters             map[string][]string `json:"filters"`
			Sort                core.SortState      `json:"sort"`
			SelectedCount       int                 `json:"selectedCount"`
			HiddenSelected      int                 `json:"hiddenSelected"`
			AllFilteredSelected bool                `json:"allFilteredSelected"`
			ExpandedCount       int                 `json:"expandedCount"`
		} `json:"view"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode view: %v", err)
	}

	out := viewResponse{ID: resp.ID, Dataset: resp.Dataset}
	out.View.TotalCount = resp.View.TotalCount
	out.View.FilteredCount = resp.View.FilteredCount
	out.View.PageCount = resp.View.PageCount
	out.View.PageIndex = resp.View.PageIndex
	out.View.PageSize = resp.View.PageSize
	out.View.Search = resp.View.Search
	out.View.Filters = resp.View.Filters
	out.View.Sort = resp.View.Sort
	out.View.SelectedCount = resp.View.SelectedCount
	out.View.HiddenSelected = resp.View.HiddenSelected
	out.View.AllFilteredSelected = resp.View.AllFilteredSelected
	out.View.ExpandedCount = resp.View.ExpandedCount
	for _, r := range resp.View.Rows {
		out.View.Rows = append(out.View.Rows, core.ViewRow{
			ID:       r.ID,
			Index:    r.Index,
			Cells:    core.RowFromMap(r.Cells),
			Selected: r.Selected,
			Expanded: r.Expanded,
		})
	}
	return out
}

func rowIDs(v viewResponse) []string {
	ids := make([]string, len(v.View.Rows))
	for i, r := range v.View.Rows {
		ids[i] = string(r.ID)
	}
	return ids
}

func openTestView(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/datasets/fruit/views", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create view status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	return decodeView(t, rec).ID
}

func TestListDatasets(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/api/datasets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []core.DatasetInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Key != "fruit" || got[0].RowCount != 5 {
		t.Errorf("datasets = %+v, want one fruit dataset with 5 rows", got)
	}
}

func TestCreateView(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/api/datasets/fruit/views", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	v := decodeView(t, rec)

	if v.ID == "" {
		t.Error("view id is empty")
	}
	if v.Dataset.Key != "fruit" {
		t.Errorf("dataset = %q, want %q", v.Dataset.Key, "fruit")
	}
	if v.View.TotalCount != 5 || v.View.FilteredCount != 5 {
		t.Errorf("counts = %d/%d, want 5/5", v.View.TotalCount, v.View.FilteredCount)
	}
	if v.View.PageCount != 3 {
		t.Errorf("pageCount = %d, want 3", v.View.PageCount)
	}
	if got := strings.Join(rowIDs(v), ","); got != "A1,A2" {
		t.Errorf("rows = %s, want A1,A2", got)
	}
	if s.sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", s.sessions.Len())
	}
}

func TestCreateView_UnknownDataset(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/api/datasets/missing/views", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code == "" || resp.Message == "" {
		t.Errorf("error response = %+v, want code and message", resp)
	}
	if strings.Contains(resp.Message, "missing") {
		t.Errorf("message %q leaks the technical detail", resp.Message)
	}
}

func TestViewNotFound(t *testing.T) {
	s := newTestServer(t, testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/views/nope"},
		{http.MethodDelete, "/api/views/nope"},
		{http.MethodPost, "/api/views/nope/search"},
		{http.MethodGet, "/api/views/nope/export"},
		{http.MethodGet, "/api/views/nope/filter-values/name"},
		{http.MethodPost, "/api/views/nope/rows/A1/view"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := do(t, s, p.method, p.path, "")
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
		})
	}
}

func TestGestures(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := openTestView(t, s)
	base := "/api/views/" + id

	t.Run("search", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/search", `{"term":"AN"}`))
		if v.View.Search != "AN" {
			t.Errorf("search = %q, want %q", v.View.Search, "AN")
		}
		if got := strings.Join(rowIDs(v), ","); got != "A3" {
			t.Errorf("rows = %s, want A3", got)
		}
		do(t, s, http.MethodPost, base+"/search", `{"term":""}`)
	})

	t.Run("filter toggles", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/filter", `{"column":"color","value":"red"}`))
		if v.View.FilteredCount != 2 {
			t.Errorf("filteredCount = %d, want 2", v.View.FilteredCount)
		}
		if got := v.View.Filters["color"]; len(got) != 1 || got[0] != "red" {
			t.Errorf("filters = %v, want color=[red]", v.View.Filters)
		}

		v = decodeView(t, do(t, s, http.MethodPost, base+"/filter", `{"column":"color","value":"red"}`))
		if v.View.FilteredCount != 5 {
			t.Errorf("filteredCount after second toggle = %d, want 5", v.View.FilteredCount)
		}
	})

	t.Run("clear all filters", func(t *testing.T) {
		do(t, s, http.MethodPost, base+"/filter", `{"column":"color","value":"green"}`)
		v := decodeView(t, do(t, s, http.MethodPost, base+"/filter/clear", ""))
		if len(v.View.Filters) != 0 {
			t.Errorf("filters = %v, want none", v.View.Filters)
		}
	})

	t.Run("sort cycles", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/sort", `{"column":"name"}`))
		if v.View.Sort.Direction != core.Asc {
			t.Fatalf("sort = %+v, want name asc", v.View.Sort)
		}
		if got := strings.Join(rowIDs(v), ","); got != "A2,A3" {
			t.Errorf("rows = %s, want A2,A3", got)
		}

		v = decodeView(t, do(t, s, http.MethodPost, base+"/sort", `{"column":"name"}`))
		if v.View.Sort.Direction != core.Desc {
			t.Errorf("sort = %+v, want name desc", v.View.Sort)
		}

		v = decodeView(t, do(t, s, http.MethodPost, base+"/sort", `{"column":"name"}`))
		if v.View.Sort.Column != "" {
			t.Errorf("sort = %+v, want none", v.View.Sort)
		}
	})

	t.Run("sort with explicit direction", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/sort", `{"column":"qty","direction":"desc"}`))
		if got := strings.Join(rowIDs(v), ","); got != "A1,A3" {
			t.Errorf("rows = %s, want A1,A3", got)
		}
	})

	t.Run("page clamps", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/page", `{"index":99}`))
		if v.View.PageIndex != 2 {
			t.Errorf("pageIndex = %d, want 2", v.View.PageIndex)
		}
	})

	t.Run("page size", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/page-size", `{"size":10}`))
		if v.View.PageSize != 10 || v.View.PageCount != 1 || len(v.View.Rows) != 5 {
			t.Errorf("page = size %d count %d rows %d, want 10/1/5", v.View.PageSize, v.View.PageCount, len(v.View.Rows))
		}
	})

	t.Run("invalid page size", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, base+"/page-size", `{"size":0}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, base+"/search", `{"term":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("select and select all", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/select", `{"id":"A2"}`))
		if v.View.SelectedCount != 1 {
			t.Errorf("selectedCount = %d, want 1", v.View.SelectedCount)
		}

		do(t, s, http.MethodPost, base+"/filter", `{"column":"color","value":"red"}`)
		v = decodeView(t, do(t, s, http.MethodPost, base+"/select-all", ""))
		if !v.View.AllFilteredSelected || v.View.SelectedCount != 2 {
			t.Errorf("select-all = %d selected, all=%v; want 2, true", v.View.SelectedCount, v.View.AllFilteredSelected)
		}

		v = decodeView(t, do(t, s, http.MethodPost, base+"/select-all", ""))
		if v.View.SelectedCount != 0 {
			t.Errorf("selectedCount after second select-all = %d, want 0", v.View.SelectedCount)
		}

		do(t, s, http.MethodPost, base+"/select", `{"id":"A4"}`)
		v = decodeView(t, do(t, s, http.MethodPost, base+"/selection/clear", ""))
		if v.View.SelectedCount != 0 {
			t.Errorf("selectedCount after clear = %d, want 0", v.View.SelectedCount)
		}
		do(t, s, http.MethodPost, base+"/filter/clear", `{"column":"color"}`)
	})

	t.Run("expand and collapse", func(t *testing.T) {
		v := decodeView(t, do(t, s, http.MethodPost, base+"/expand", `{"id":"A1"}`))
		if v.View.ExpandedCount != 1 {
			t.Errorf("expandedCount = %d, want 1", v.View.ExpandedCount)
		}
		v = decodeView(t, do(t, s, http.MethodPost, base+"/collapse", ""))
		if v.View.ExpandedCount != 0 {
			t.Errorf("expandedCount = %d, want 0", v.View.ExpandedCount)
		}
	})

	t.Run("reset", func(t *testing.T) {
		do(t, s, http.MethodPost, base+"/search", `{"term":"lime"}`)
		v := decodeView(t, do(t, s, http.MethodPost, base+"/reset", ""))
		if v.View.Search != "" || v.View.FilteredCount != 5 || v.View.PageIndex != 0 {
			t.Errorf("after reset: search=%q filtered=%d page=%d", v.View.Search, v.View.FilteredCount, v.View.PageIndex)
		}
	})
}

func TestFilterValues(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := openTestView(t, s)

	rec := do(t, s, http.MethodGet, "/api/views/"+id+"/filter-values/color", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got struct {
		Column string   `json:"column"`
		Values []string `json:"values"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Column != "color" {
		t.Errorf("column = %q, want %q", got.Column, "color")
	}
	if len(got.Values) != 4 {
		t.Errorf("values = %v, want 4 distinct colors", got.Values)
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := openTestView(t, s)
	base := "/api/views/" + id

	do(t, s, http.MethodPost, base+"/filter", `{"column":"color","value":"red"}`)
	do(t, s, http.MethodPost, base+"/filter", `{"column":"color","value":"brown"}`)
	do(t, s, http.MethodPost, base+"/sort", `{"column":"qty"}`)
	do(t, s, http.MethodPost, base+"/page-size", `{"size":1}`)

	rec := do(t, s, http.MethodGet, base+"/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="fruit_`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	// All filtered rows regardless of the page, nulls sort last.
	want := "SKU,Name,Color,Qty\n" +
		"A2,apple,red,3\n" +
		"A1,Cherry,red,12\n" +
		"A#5,\"Date, dried\",brown,\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("export =\n%s\nwant\n%s", got, want)
	}
	if s.exports.ActiveCount() != 0 {
		t.Errorf("active exports = %d, want 0", s.exports.ActiveCount())
	}
}

func TestRowAction(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := openTestView(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/views/"+id+"/rows/"+"A%235"+"/edit", nil)
	req.Header.Set("User-Agent", "grid-test")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	records := s.actions.Recent(0)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	got := records[0]
	if got.Action != core.ActionEdit || got.Index != 4 || got.ViewID != id || got.Dataset != "fruit" {
		t.Errorf("record = %+v", got)
	}
	if got.Actor.UserAgent != "grid-test" || got.Actor.IP == "" {
		t.Errorf("record actor = %+v", got.Actor)
	}

	rec = do(t, s, http.MethodGet, "/api/actions?limit=5", "")
	var listed []struct {
		ViewID string         `json:"viewId"`
		Action core.RowAction `json:"action"`
		Row    map[string]any `json:"row"`
		Actor  core.Actor     `json:"actor"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 1 || listed[0].Action != core.ActionEdit || listed[0].Row["name"] != "Date, dried" {
		t.Errorf("listed = %+v", listed)
	}
}

func TestRowAction_Errors(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := openTestView(t, s)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "unknown action", path: "/rows/A1/archive", want: http.StatusBadRequest},
		{name: "unknown row", path: "/rows/Z9/view", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/views/"+id+tt.path, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if n := len(s.actions.Recent(0)); n != 0 {
		t.Errorf("records = %d, want 0", n)
	}
}

func TestDeleteView(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := openTestView(t, s)

	if rec := do(t, s, http.MethodDelete, "/api/views/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec := do(t, s, http.MethodGet, "/api/views/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestTooManyViews(t *testing.T) {
	cfg := testConfig()
	cfg.View.MaxSessions = 1
	s := newTestServer(t, cfg)

	openTestView(t, s)
	rec := do(t, s, http.MethodPost, "/api/datasets/fruit/views", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := newTestServer(t, cfg)

	if rec := do(t, s, http.MethodGet, "/api/datasets", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status without key = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status with key = %d, want %d", rec.Code, http.StatusOK)
	}

	// Pages are not behind the key.
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, ExportLimit: 1}
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want %q", rec.Header().Get("Retry-After"), "60")
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "RATE001" {
		t.Errorf("code = %q, want RATE001", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())
	openTestView(t, s)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	var got struct {
		Status   string              `json:"status"`
		Datasets int                 `json:"datasets"`
		Views    int                 `json:"views"`
		Exports  ExportLimiterStatus `json:"exports"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.Datasets != 1 || got.Views != 1 || got.Exports.MaxConcurrent != 2 {
		t.Errorf("health = %+v", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableCSP = true
	s := newTestServer(t, cfg)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Referrer-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
	if csp := rec.Header().Get("Content-Security-Policy"); strings.Contains(csp, "unsafe-inline") {
		t.Errorf("Content-Security-Policy = %q, want no unsafe-inline", csp)
	}
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
	}{
		{path: "/static/grid.css", wantStatus: http.StatusOK, wantType: "text/css"},
		{path: "/static/grid.js", wantStatus: http.StatusOK, wantType: "javascript"},
		{path: "/static/missing.js", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, tt.wantType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
		})
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	tests := []struct {
		dataset string
		want    string
	}{
		{"orders", "orders_20240309_140506.csv"},
		{"public.orders", "public.orders_20240309_140506.csv"},
		{`we"ird/name`, "we_ird_name_20240309_140506.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.dataset, func(t *testing.T) {
			if got := exportFilename(tt.dataset, at); got != tt.want {
				t.Errorf("exportFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
