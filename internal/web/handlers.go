package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stagedesk/boxoffice/internal/importer"
	"github.com/stagedesk/boxoffice/internal/logging"
	"github.com/stagedesk/boxoffice/internal/model"
)

const dateLayout = "2006-01-02"

// handleImport accepts a multipart CSV upload and runs the import pipeline
// against the production in the URL.
//
// Form fields: "file" (the CSV) and "import_type" (events|cast|crew|tickets|feedback).
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	prod, ok := s.production(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "upload too large or not multipart")
		return
	}

	typ := model.ImportType(r.FormValue("import_type"))
	if _, ok := importer.Lookup(typ); !ok {
		writeError(w, r, http.StatusBadRequest, "unknown import type")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if err := s.limiter.Acquire(r.Context()); err != nil {
		if errors.Is(err, ErrImportsBusy) {
			writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "request cancelled")
		return
	}
	defer s.limiter.Release()

	ctx, cancel := s.importContext(r)
	defer cancel()

	outcome, err := s.importer.Run(ctx, file, importer.Request{
		Type:       typ,
		Production: prod,
		ActingUser: actingUser(r),
		FileName:   header.Filename,
	})
	if err != nil {
		var malformed *importer.MalformedInputError
		if errors.As(err, &malformed) {
			writeError(w, r, http.StatusBadRequest, malformed.Error())
			return
		}
		logging.FromContext(r.Context()).Error("import failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "import failed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"created":    outcome.Created,
		"errorCount": len(outcome.Errors),
		"importId":   outcome.Record.ID,
	})
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := s.repo.ListImportRecords(r.Context(), s.theater.ID, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("list imports", "error", err)
		writeError(w, r, http.StatusInternalServerError, "list imports failed")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"imports": records})
}

func (s *Server) handleCreateProduction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Director    string `json:"director"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}

	prod := &model.Production{
		TheaterID:   s.theater.ID,
		Title:       req.Title,
		Description: req.Description,
		Director:    req.Director,
		StartDate:   start,
		EndDate:     end,
		CreatedBy:   actingUser(r),
	}
	if err := s.repo.CreateProduction(r.Context(), prod); err != nil {
		logging.FromContext(r.Context()).Error("create production", "error", err)
		writeError(w, r, http.StatusInternalServerError, "create production failed")
		return
	}
	writeJSON(w, r, http.StatusCreated, prod)
}

func (s *Server) handleListProductions(w http.ResponseWriter, r *http.Request) {
	prods, err := s.repo.ListProductions(r.Context(), s.theater.ID)
	if err != nil {
		logging.FromContext(r.Context()).Error("list productions", "error", err)
		writeError(w, r, http.StatusInternalServerError, "list productions failed")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"productions": prods})
}

func (s *Server) handleCreatePerformance(w http.ResponseWriter, r *http.Request) {
	prod, ok := s.production(w, r)
	if !ok {
		return
	}

	var req struct {
		StartsAt string `json:"startsAt"`
		Venue    string `json:"venue"`
		Capacity int    `json:"capacity"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	startsAt, err := time.Parse(importer.TimestampLayout, req.StartsAt)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "startsAt must be YYYY-MM-DD HH:MM")
		return
	}
	if req.Capacity < 0 {
		writeError(w, r, http.StatusBadRequest, "capacity must be non-negative")
		return
	}

	perf := &model.Performance{
		ProductionID: prod.ID,
		StartsAt:     startsAt,
		Venue:        req.Venue,
		Capacity:     req.Capacity,
		Notes:        req.Notes,
	}
	if err := s.repo.CreatePerformance(r.Context(), perf); err != nil {
		logging.FromContext(r.Context()).Error("create performance", "error", err)
		writeError(w, r, http.StatusInternalServerError, "create performance failed")
		return
	}
	writeJSON(w, r, http.StatusCreated, perf)
}

func (s *Server) handleListPerformances(w http.ResponseWriter, r *http.Request) {
	prod, ok := s.production(w, r)
	if !ok {
		return
	}

	perfs, err := s.repo.ListPerformances(r.Context(), prod.ID)
	if err != nil {
		logging.FromContext(r.Context()).Error("list performances", "error", err)
		writeError(w, r, http.StatusInternalServerError, "list performances failed")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"performances": perfs})
}

func (s *Server) handleProductionSummary(w http.ResponseWriter, r *http.Request) {
	prod, ok := s.production(w, r)
	if !ok {
		return
	}

	sum, err := s.repo.ProductionSummary(r.Context(), prod.ID)
	if err != nil {
		logging.FromContext(r.Context()).Error("production summary", "error", err)
		writeError(w, r, http.StatusInternalServerError, "summary failed")
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

// handleSubmitFeedback accepts a single audience feedback entry, the manual
// counterpart of a feedback import row.
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	perfID, err := strconv.ParseInt(chi.URLParam(r, "performanceID"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid performance id")
		return
	}

	perf, err := s.repo.PerformanceByID(r.Context(), perfID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "performance not found")
			return
		}
		logging.FromContext(r.Context()).Error("load performance", "error", err)
		writeError(w, r, http.StatusInternalServerError, "load performance failed")
		return
	}

	var req struct {
		Rating   int    `json:"rating"`
		Comments string `json:"comments"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, r, http.StatusBadRequest, "rating must be 1-5")
		return
	}

	entry := &model.FeedbackEntry{
		PerformanceID: perf.ID,
		Rating:        req.Rating,
		Comments:      req.Comments,
		Name:          req.Name,
		Email:         req.Email,
	}
	if err := s.repo.CreateFeedback(r.Context(), entry); err != nil {
		logging.FromContext(r.Context()).Error("create feedback", "error", err)
		writeError(w, r, http.StatusInternalServerError, "create feedback failed")
		return
	}
	writeJSON(w, r, http.StatusCreated, entry)
}

// production loads the production named in the URL, writing the error
// response itself on failure.
func (s *Server) production(w http.ResponseWriter, r *http.Request) (*model.Production, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productionID"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid production id")
		return nil, false
	}

	prod, err := s.repo.ProductionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "production not found")
			return nil, false
		}
		logging.FromContext(r.Context()).Error("load production", "error", err)
		writeError(w, r, http.StatusInternalServerError, "load production failed")
		return nil, false
	}
	if prod.TheaterID != s.theater.ID {
		writeError(w, r, http.StatusNotFound, "production not found")
		return nil, false
	}
	return prod, true
}
