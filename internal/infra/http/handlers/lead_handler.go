package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/http/middleware"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

const maxBodyBytes = 1 << 20

type LeadHandler struct {
	CreateUC       *usecase.CreateLeadUseCase
	GetUC          *usecase.GetLeadUseCase
	ListUC         *usecase.ListLeadsUseCase
	UpdateUC       *usecase.UpdateLeadUseCase
	ChangeStatusUC *usecase.ChangeLeadStatusUseCase
	AssignUC       *usecase.AssignLeadUseCase
	AddNoteUC      *usecase.AddLeadNoteUseCase
	DeleteUC       *usecase.DeleteLeadUseCase
	StatsUC        *usecase.LeadStatsUseCase
	ExportUC       *usecase.ExportLeadsUseCase
	Logger         *slog.Logger
}

// NewLeadHandler wires every lead use case over the same repositories.
func NewLeadHandler(
	leads entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	events usecase.EventPublisher,
	logger *slog.Logger,
) *LeadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadHandler{
		CreateUC:       usecase.NewCreateLeadUseCase(leads, users, events, logger),
		GetUC:          usecase.NewGetLeadUseCase(leads),
		ListUC:         usecase.NewListLeadsUseCase(leads),
		UpdateUC:       usecase.NewUpdateLeadUseCase(leads),
		ChangeStatusUC: usecase.NewChangeLeadStatusUseCase(leads, events, logger),
		AssignUC:       usecase.NewAssignLeadUseCase(leads, users, events, logger),
		AddNoteUC:      usecase.NewAddLeadNoteUseCase(leads),
		DeleteUC:       usecase.NewDeleteLeadUseCase(leads, logger),
		StatsUC:        usecase.NewLeadStatsUseCase(leads),
		ExportUC:       usecase.NewExportLeadsUseCase(leads),
		Logger:         logger,
	}
}

// Routes mounts the lead endpoints. Callers are expected to be
// authenticated already; delete and assign additionally need a manager.
func (h *LeadHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/stats", h.Stats)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Put("/{id}/status", h.ChangeStatus)
	r.Post("/{id}/notes", h.AddNote)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/assign", h.Assign)
	})
}

func caller(r *http.Request) entity.UserRef {
	u, _ := middleware.UserFromContext(r.Context())
	return u.Ref()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return false
	}
	return true
}

// GET /leads
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	input, errs := parseListInput(r.URL.Query())
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	out, err := h.ListUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: out.Data, Pagination: &out.Pagination})
}

// GET /leads/stats
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	input, errs := parseListInput(r.URL.Query())
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	stats, err := h.StatsUC.Execute(r.Context(), input.Filter)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

// GET /leads/export
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	input, errs := parseListInput(r.URL.Query())
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var buf bytes.Buffer
	n, err := h.ExportUC.Execute(r.Context(), input, &buf)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("X-Total-Count", fmt.Sprint(n))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, &buf)
}

// GET /leads/{id}
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

// POST /leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.CreatedBy = caller(r)

	out, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}

	middleware.RecordLeadCreated(string(out.Source))
	writeData(w, http.StatusCreated, out)
}

// PUT /leads/{id}
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	var patch entity.LeadPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	fields := make([]string, 0, len(raw))
	for k := range raw {
		fields = append(fields, k)
	}

	out, err := h.UpdateUC.Execute(r.Context(), usecase.UpdateLeadInput{
		ID:     chi.URLParam(r, "id"),
		Patch:  patch,
		Fields: fields,
	})
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

// PUT /leads/{id}/status
func (h *LeadHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.ChangeStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.Actor = caller(r)

	out, err := h.ChangeStatusUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}

	middleware.RecordStatusChange(string(out.Status))
	writeData(w, http.StatusOK, out)
}

// PUT /leads/{id}/assign
func (h *LeadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input usecase.AssignLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.Actor = caller(r)

	out, err := h.AssignUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

// POST /leads/{id}/notes
func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddNoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.Author = caller(r)

	out, err := h.AddNoteUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeData(w, http.StatusCreated, out)
}

// DELETE /leads/{id}
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DeleteUC.Execute(r.Context(), chi.URLParam(r, "id"), caller(r)); err != nil {
		writeUseCaseError(w, h.Logger, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}
