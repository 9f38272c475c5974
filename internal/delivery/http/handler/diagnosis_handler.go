package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/delivery/http/middleware"
	"telemed-platform/internal/service"
	"telemed-platform/internal/usecase"
	"telemed-platform/pkg/response"
	"telemed-platform/pkg/validator"
)

type DiagnosisHandler struct {
	diagnosisUsecase usecase.DiagnosisUsecase
	validator        *validator.CustomValidator
}

func NewDiagnosisHandler(diagnosisUsecase usecase.DiagnosisUsecase, validator *validator.CustomValidator) *DiagnosisHandler {
	return &DiagnosisHandler{
		diagnosisUsecase: diagnosisUsecase,
		validator:        validator,
	}
}

// Start opens a new symptom-checker session
// @Summary Start diagnosis session
// @Tags Diagnosis
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.StartDiagnosisRequest true "Start Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /diagnosis/sessions [post]
func (h *DiagnosisHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.StartDiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.diagnosisUsecase.StartSession(r.Context(), userID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to start diagnosis session")
		return
	}

	response.Success(w, http.StatusCreated, "Diagnosis session started", session)
}

// SendSymptoms submits symptoms and returns the engine's assessment
// @Summary Send symptoms
// @Tags Diagnosis
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.DiagnosisMessageRequest true "Symptoms Request"
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /diagnosis/sessions/{id}/messages [post]
func (h *DiagnosisHandler) SendSymptoms(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	var req dto.DiagnosisMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	assessment, err := h.diagnosisUsecase.SendSymptoms(r.Context(), userID, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrDiagnosisUnavailable) {
			response.Error(w, http.StatusBadGateway, "Diagnosis engine unavailable, try again later", nil)
			return
		}
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Assessment retrieved", assessment)
}

// Get returns a session with its message history
// @Summary Get diagnosis session
// @Tags Diagnosis
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /diagnosis/sessions/{id} [get]
func (h *DiagnosisHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	session, err := h.diagnosisUsecase.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Session retrieved", session)
}

// List returns the caller's diagnosis sessions
// @Summary List diagnosis sessions
// @Tags Diagnosis
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response
// @Router /diagnosis/sessions [get]
func (h *DiagnosisHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	limit, offset := parsePagination(r)

	sessions, err := h.diagnosisUsecase.ListMine(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalServerError(w, "Failed to list diagnosis sessions")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Sessions retrieved", sessions, response.NewMeta(limit, offset, sessions.Total))
}

// Close closes a diagnosis session
// @Summary Close diagnosis session
// @Tags Diagnosis
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /diagnosis/sessions/{id}/close [post]
func (h *DiagnosisHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	session, err := h.diagnosisUsecase.CloseSession(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Session closed", session)
}

func (h *DiagnosisHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		response.NotFound(w, "Diagnosis session not found")
	case errors.Is(err, usecase.ErrNotSessionOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrSessionClosed):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalServerError(w, "Failed to process diagnosis request")
	}
}
