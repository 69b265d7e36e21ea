package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/gridview/internal/core"
	"github.com/JonMunkholm/gridview/internal/logging"
)

// maxBodySize bounds gesture request bodies.
const maxBodySize = 1 << 20

// viewResponse is the JSON answer to every view request.
type viewResponse struct {
	ID      string           `json:"id"`
	Dataset core.DatasetInfo `json:"dataset"`
	View    core.ViewState   `json:"view"`
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

// urlParam returns a path parameter, unescaped when the router matched on
// the raw path.
func urlParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped
		}
	}
	return v
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// openView builds an engine over the dataset and registers it.
func (s *Server) openView(d core.Dataset) (*View, error) {
	return s.sessions.Create(d.Info(), func(id string) (*core.Engine, error) {
		return core.New(d.Columns, d.Rows, core.Options{
			PageSize:          s.cfg.View.PageSize,
			MultiSelect:       s.cfg.View.MultiSelect,
			SingleExpand:      s.cfg.View.SingleExpand,
			IDKey:             d.IDKey,
			Locale:            s.cfg.View.LocaleTag(),
			ParallelThreshold: s.cfg.View.ParallelThreshold,
			Host:              s.actions.HostFor(id, d.Key),
			Export: core.ExportOptions{
				Delimiter: s.cfg.Export.DelimiterRune(),
				UseCRLF:   s.cfg.Export.UseCRLF,
			},
			Logger: slog.With(logging.KeyDataset, d.Key, logging.KeyViewID, id),
		})
	})
}

// withView runs fn against the view named in the URL and answers with the
// recomputed view state.
func (s *Server) withView(w http.ResponseWriter, r *http.Request, fn func(e *core.Engine) error) {
	v, err := s.sessions.Get(urlParam(r, "viewID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var state core.ViewState
	err = v.Do(func(e *core.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		state = e.View()
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{ID: v.ID, Dataset: v.Dataset, View: state})
}

// gesture decodes the request body into req and then applies fn.
func gesture[T any](s *Server, fn func(e *core.Engine, req T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := decodeBody(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.withView(w, r, func(e *core.Engine) error {
			return fn(e, req)
		})
	}
}

// handleListDatasets returns every dataset summary.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

// handleCreateView opens a view over a dataset.
func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	key := urlParam(r, "key")
	d, ok := s.catalog.Get(key)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %s", core.ErrDatasetNotFound, key))
		return
	}

	v, err := s.openView(d)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.ForView(r.Context(), v.ID, key).Info("view opened")

	var state core.ViewState
	_ = v.Do(func(e *core.Engine) error {
		state = e.View()
		return nil
	})
	writeJSON(w, http.StatusCreated, viewResponse{ID: v.ID, Dataset: v.Dataset, View: state})
}

// handleGetView returns the current view state.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(*core.Engine) error { return nil })
}

// handleDeleteView closes a view.
func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "viewID")
	if !s.sessions.Delete(id) {
		s.respondError(w, r, fmt.Errorf("%w: %s", ErrViewNotFound, id))
		return
	}
	logging.ForView(r.Context(), id, "").Info("view closed")
	w.WriteHeader(http.StatusNoContent)
}

type searchRequest struct {
	Term string `json:"term"`
}

type filterRequest struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

type sortRequest struct {
	Column    string         `json:"column"`
	Direction core.Direction `json:"direction"`
}

type pageRequest struct {
	Index int `json:"index"`
}

type pageSizeRequest struct {
	Size int `json:"size"`
}

type rowRequest struct {
	ID core.RowID `json:"id"`
}

// Unknown columns and row ids are ignored by the engine; the handlers below
// answer with the unchanged view in that case.

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req searchRequest) error {
		e.SetSearchTerm(req.Term)
		return nil
	})(w, r)
}

func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req filterRequest) error {
		e.ToggleColumnFilterValue(req.Column, req.Value)
		return nil
	})(w, r)
}

// handleClearFilter clears one column's filter, or all filters when no
// column is given.
func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req filterRequest) error {
		if req.Column == "" {
			e.ClearFilters()
		} else {
			e.ClearColumnFilter(req.Column)
		}
		return nil
	})(w, r)
}

// handleSort cycles the sort on a column (asc, desc, none). An explicit
// direction sets the sort state directly instead.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req sortRequest) error {
		if req.Direction != "" {
			e.SetSortState(core.SortState{Column: req.Column, Direction: req.Direction})
		} else {
			e.SetSort(req.Column)
		}
		return nil
	})(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req pageRequest) error {
		e.SetPage(req.Index)
		return nil
	})(w, r)
}

func (s *Server) handlePageSize(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req pageSizeRequest) error {
		return e.SetPageSize(req.Size)
	})(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req rowRequest) error {
		e.ToggleSelect(req.ID)
		return nil
	})(w, r)
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(e *core.Engine) error {
		e.ToggleSelectAll()
		return nil
	})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(e *core.Engine) error {
		e.ClearSelection()
		return nil
	})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	gesture(s, func(e *core.Engine, req rowRequest) error {
		e.ToggleExpand(req.ID)
		return nil
	})(w, r)
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(e *core.Engine) error {
		e.CollapseAll()
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(e *core.Engine) error {
		e.Reset()
		return nil
	})
}

// handleFilterValues lists the distinct values of a column for building
// filter menus.
func (s *Server) handleFilterValues(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(urlParam(r, "viewID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	column := urlParam(r, "column")
	var values []string
	_ = v.Do(func(e *core.Engine) error {
		values = e.FilterValues(column)
		return nil
	})
	if values == nil {
		values = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"column": column,
		"values": values,
	})
}

// handleRowAction routes a row action to the host.
func (s *Server) handleRowAction(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(urlParam(r, "viewID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	action, err := core.ParseRowAction(urlParam(r, "action"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	id := core.RowID(urlParam(r, "rowID"))

	ctx := WithRequestMetadata(r.Context(), r)
	err = v.Do(func(e *core.Engine) error {
		return e.Act(ctx, action, id)
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.ForView(r.Context(), v.ID, v.Dataset.Key).Info("row action", "row_id", id, "action", action)
	writeJSON(w, http.StatusOK, map[string]any{
		"action": action,
		"id":     id,
	})
}

// handleListActions returns the most recent row actions, newest first.
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	writeJSON(w, http.StatusOK, s.actions.Recent(limit))
}

// handleExport downloads the filtered, sorted rows of a view as CSV,
// ignoring pagination.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(urlParam(r, "viewID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.exports.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.exports.Release()

	// Serialize under the view lock, write to the client after releasing it.
	var data []byte
	err = v.Do(func(e *core.Engine) error {
		var err error
		data, err = e.RequestExport()
		return err
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := exportFilename(v.Dataset.Key, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := w.Write(data); err != nil {
		logging.ForView(r.Context(), v.ID, v.Dataset.Key).Warn("export write failed", "error", err)
		return
	}
	logging.ForView(r.Context(), v.ID, v.Dataset.Key).Info("export complete", "bytes", len(data))
}

// exportFilename names a download: "<dataset>_<timestamp>.csv". Characters
// unsafe in a header value are replaced.
func exportFilename(dataset string, t time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, dataset)
	return fmt.Sprintf("%s_%s.csv", safe, t.Format("20060102_150405"))
}
