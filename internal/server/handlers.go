package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sozercan/racing-agent/apimodels"
	"github.com/sozercan/racing-agent/internal/analyzer"
	"github.com/sozercan/racing-agent/internal/credential"
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/sozercan/racing-agent/internal/race"
	"github.com/sozercan/racing-agent/internal/render"
)

const defaultRaceTime = "15:35"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	form := render.Form{
		Date: s.now().Format(race.DateLayout),
		Time: defaultRaceTime,
		Mode: race.Win.String(),
	}
	s.writePage(w, form, nil)
}

// handleForm runs one analysis from the HTML form. Every analysis outcome,
// errors included, is rendered on the page with status 200.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	form := render.Form{
		Meeting: r.PostFormValue("meeting"),
		Date:    r.PostFormValue("date"),
		Time:    r.PostFormValue("time"),
		Mode:    r.PostFormValue("mode"),
	}
	cred := s.credentialFor(r.PostFormValue("api_key"))

	q, qerr := race.NewQuery(form.Meeting, form.Date, form.Time, form.Mode)
	if err := analyzer.CheckInput(cred, qerr); err != nil {
		slog.Debug("Form rejected", "kind", analyzer.KindOf(err), "error", err)
		page := render.NewPage(q, nil, err)
		s.writePage(w, form, &page)
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), q, cred)
	page := render.NewPage(q, report, err)
	s.writePage(w, render.FormFromQuery(q), &page)
}

func (s *Server) writePage(w http.ResponseWriter, form render.Form, page *render.Page) {
	form.NeedKey = s.session.Credential.Empty()
	form.KeySource = s.session.Source

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.html.Execute(w, render.View{Form: form, Page: page}); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apimodels.ErrorResponse{Error: apimodels.ErrorBody{
			Kind:    analyzer.KindInvalidQuery.String(),
			Message: fmt.Sprintf("Invalid request: %v", err),
		}})
		return
	}
	defer r.Body.Close()

	slog.Debug("Received analysis request", "meeting", req.Meeting, "date", req.Date, "time", req.Time, "mode", req.Mode)

	cred := s.credentialFor(req.APIKey)
	q, qerr := race.NewQuery(req.Meeting, req.Date, req.Time, req.Mode)
	if err := analyzer.CheckInput(cred, qerr); err != nil {
		writeError(w, err)
		return
	}

	opts := []llm.Option{llm.WithModel(req.Options.Model)}
	if req.Options.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(req.Options.MaxTokens))
	}
	if req.Options.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*req.Options.Temperature))
	}

	report, err := s.analyzer.Analyze(r.Context(), q, cred, opts...)
	if err != nil {
		slog.Error("Analysis request failed", "error", err)
		writeError(w, err)
		return
	}

	slog.Debug("Analysis request completed successfully", "id", report.Metadata.ID)
	writeJSON(w, http.StatusOK, apimodels.NewAnalysisResponse(report))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// credentialFor prefers the session key over a key sent with the request.
func (s *Server) credentialFor(submitted string) credential.Credential {
	if !s.session.Credential.Empty() {
		return s.session.Credential
	}
	return credential.Credential(submitted)
}

// errorStatus is 400 for input errors and 502 for model failures.
func errorStatus(err error) int {
	kind := analyzer.KindOf(err)
	switch {
	case kind.Input():
		return http.StatusBadRequest
	case kind == analyzer.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), apimodels.NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
