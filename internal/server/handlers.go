package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
)

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	name := chi.URLParam(r, "name")
	svg, ok := sess.Canvas.SVG(name)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no chart named %q", name))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Dashboard.Frame())
}

type facetResponse struct {
	Dimension facet.Dimension `json:"dimension"`
	Caption   string          `json:"caption"`
	Values    []facetValue    `json:"values"`
}

type facetValue struct {
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	dim, err := facet.ParseDimension(chi.URLParam(r, "dim"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sel := d.Selection()
	idx := d.Index()
	labels := idx.Search(dim, r.URL.Query().Get("q"))
	resp := facetResponse{Dimension: dim, Caption: d.Caption(dim), Values: make([]facetValue, len(labels))}
	for i, l := range labels {
		resp.Values[i] = facetValue{Label: l, Count: idx.Count(dim, l), Selected: sel.Has(dim, l)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	year, err := errors.ParseYear(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	tip, ok := sessionFrom(r).Dashboard.Hover(year)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no data for %d", year))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		dashboard.Tooltip
		Lines []string `json:"lines"`
	}{tip, tip.Lines()})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	dim, err := facet.ParseDimension(chi.URLParam(r, "dim"))
	if err == nil {
		err = d.Toggle(dim, r.FormValue("label"))
	}
	s.respond(w, r, d, err)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	dim, err := facet.ParseDimension(chi.URLParam(r, "dim"))
	if err == nil {
		err = d.Clear(dim)
	}
	s.respond(w, r, d, err)
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	dim, err := facet.ParseDimension(chi.URLParam(r, "dim"))
	if err == nil {
		err = d.SelectAll(dim)
	}
	s.respond(w, r, d, err)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	s.respond(w, r, d, d.ClearAll())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	mode, err := dashboard.ParseMode(chi.URLParam(r, "mode"))
	if err == nil {
		err = d.SetMode(mode)
	}
	s.respond(w, r, d, err)
}

// handleFocus takes the year from the path or from the "year" form field.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	raw := chi.URLParam(r, "year")
	if raw == "" {
		raw = r.FormValue("year")
	}
	year, err := errors.ParseYear(raw)
	if err == nil {
		err = d.ToggleFocus(year)
	}
	s.respond(w, r, d, err)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	d := sessionFrom(r).Dashboard
	width, err := strconv.Atoi(strings.TrimSpace(r.FormValue("width")))
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "width must be an integer"))
		return
	}
	d.Resize(width)
	s.respond(w, r, d, nil)
}
