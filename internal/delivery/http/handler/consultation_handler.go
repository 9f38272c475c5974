package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/delivery/http/middleware"
	"telemed-platform/internal/usecase"
	"telemed-platform/pkg/response"
	"telemed-platform/pkg/validator"
)

type ConsultationHandler struct {
	consultationUsecase usecase.ConsultationUsecase
	validator           *validator.CustomValidator
}

func NewConsultationHandler(consultationUsecase usecase.ConsultationUsecase, validator *validator.CustomValidator) *ConsultationHandler {
	return &ConsultationHandler{
		consultationUsecase: consultationUsecase,
		validator:           validator,
	}
}

// Create schedules a video consultation on a confirmed appointment (doctor only)
// @Summary Create consultation
// @Tags Consultations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateConsultationRequest true "Consultation Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /consultations [post]
func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	consultation, err := h.consultationUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotAppointmentParty):
			response.Forbidden(w, err.Error())
		case errors.Is(err, usecase.ErrAppointmentNotConfirmed):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrConsultationExists):
			response.Error(w, http.StatusConflict, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create consultation")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Consultation created", consultation)
}

// Get returns one consultation
// @Summary Get consultation
// @Tags Consultations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Consultation ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /consultations/{id} [get]
func (h *ConsultationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid consultation ID", nil)
		return
	}

	consultation, err := h.consultationUsecase.Get(r.Context(), userID, role, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Consultation retrieved", consultation)
}

// List returns the caller's consultations
// @Summary List consultations
// @Tags Consultations
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response
// @Router /consultations [get]
func (h *ConsultationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	limit, offset := parsePagination(r)

	consultations, err := h.consultationUsecase.ListMine(r.Context(), userID, role, limit, offset)
	if err != nil {
		response.InternalServerError(w, "Failed to list consultations")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Consultations retrieved", consultations, response.NewMeta(limit, offset, consultations.Total))
}

// Start activates the consultation room and returns the doctor's room token
// @Summary Start consultation
// @Tags Consultations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Consultation ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /consultations/{id}/start [post]
func (h *ConsultationHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid consultation ID", nil)
		return
	}

	token, err := h.consultationUsecase.Start(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Consultation started", token)
}

// Join returns a room token for a participant of an active consultation
// @Summary Join consultation
// @Tags Consultations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Consultation ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /consultations/{id}/join [post]
func (h *ConsultationHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid consultation ID", nil)
		return
	}

	token, err := h.consultationUsecase.Join(r.Context(), userID, role, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Room token issued", token)
}

// End closes an active consultation (doctor only)
// @Summary End consultation
// @Tags Consultations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Consultation ID"
// @Param request body dto.EndConsultationRequest false "End Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /consultations/{id}/end [post]
func (h *ConsultationHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid consultation ID", nil)
		return
	}

	var req dto.EndConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = dto.EndConsultationRequest{}
	}

	consultation, err := h.consultationUsecase.End(r.Context(), userID, id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Consultation ended", consultation)
}

func (h *ConsultationHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrConsultationNotFound):
		response.NotFound(w, "Consultation not found")
	case errors.Is(err, usecase.ErrNotConsultationParty),
		errors.Is(err, usecase.ErrOnlyDoctorMayStart),
		errors.Is(err, usecase.ErrOnlyDoctorMayEnd):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrConsultationNotActive), errors.Is(err, usecase.ErrConsultationEnded):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalServerError(w, "Failed to process consultation")
	}
}
