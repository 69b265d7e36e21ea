package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/gridview/internal/core"
	"github.com/JonMunkholm/gridview/internal/logging"
	"github.com/JonMunkholm/gridview/internal/web/templates"
)

// handleDashboard renders the dataset list.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var groups []templates.DatasetGroup
	for _, name := range s.catalog.Groups() {
		groups = append(groups, templates.DatasetGroup{
			Name:     name,
			Datasets: s.catalog.ByGroup(name),
		})
	}
	s.render(w, r, http.StatusOK, templates.Dashboard(groups))
}

// handleOpenPage opens a view from the dashboard form and redirects to it.
func (s *Server) handleOpenPage(w http.ResponseWriter, r *http.Request) {
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
	http.Redirect(w, r, "/view/"+v.ID, http.StatusSeeOther)
}

// handleViewPage renders the current page of a view.
func (s *Server) handleViewPage(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(urlParam(r, "viewID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var (
		state   core.ViewState
		options = make(map[string][]string)
	)
	_ = v.Do(func(e *core.Engine) error {
		state = e.View()
		for _, col := range state.Columns {
			if col.Filterable {
				options[col.Key] = e.FilterValues(col.Key)
			}
		}
		return nil
	})

	s.render(w, r, http.StatusOK, templates.ViewPage(templates.ViewPageParams{
		ViewID:  v.ID,
		Dataset: v.Dataset,
		State:   state,
		Options: options,
	}))
}

// handleHealth reports liveness plus view and export load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"datasets": s.catalog.Len(),
		"views":    s.sessions.Len(),
		"exports":  s.exports.Status(),
	})
}
