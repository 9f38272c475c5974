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

	"github.com/google/uuid"
)

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

// Create adds a medical record to a patient's file (clinician only)
// @Summary Create medical record
// @Tags MedicalRecords
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMedicalRecordRequest true "Record Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /records [post]
func (h *MedicalRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		case errors.Is(err, usecase.ErrInvalidDateFormat):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create medical record")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created", record)
}

// Get returns a single medical record
// @Summary Get medical record
// @Tags MedicalRecords
// @Security BearerAuth
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /records/{id} [get]
func (h *MedicalRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	record, err := h.recordUsecase.Get(r.Context(), userID, role, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved", record)
}

// List returns medical records scoped by the caller's role
// @Summary List medical records
// @Tags MedicalRecords
// @Security BearerAuth
// @Produce json
// @Param patient_id query string false "Patient filter (clinicians and admins)"
// @Param record_type query string false "Record type filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response
// @Router /records [get]
func (h *MedicalRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	limit, offset := parsePagination(r)

	var patientID *uuid.UUID
	if raw := r.URL.Query().Get("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
			return
		}
		patientID = &id
	}

	records, err := h.recordUsecase.List(r.Context(), userID, role, patientID, r.URL.Query().Get("record_type"), limit, offset)
	if err != nil {
		response.InternalServerError(w, "Failed to list medical records")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Medical records retrieved", records, response.NewMeta(limit, offset, records.Total))
}

// Update edits a record's text fields (author or admin)
// @Summary Update medical record
// @Tags MedicalRecords
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param request body dto.UpdateMedicalRecordRequest true "Update Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /records/{id} [put]
func (h *MedicalRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.Update(r.Context(), userID, role, id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record updated", record)
}

// Delete removes a record and its attachments (author or admin)
// @Summary Delete medical record
// @Tags MedicalRecords
// @Security BearerAuth
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /records/{id} [delete]
func (h *MedicalRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	if err := h.recordUsecase.Delete(r.Context(), userID, role, id); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medical record deleted", nil)
}

// AddAttachment uploads a file attached to a record
// @Summary Attach file to medical record
// @Tags MedicalRecords
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Record ID"
// @Param file formData file true "Attachment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /records/{id}/attachments [post]
func (h *MedicalRecordHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing attachment file", nil)
		return
	}
	defer file.Close()

	attachment, err := h.recordUsecase.AddAttachment(r.Context(), userID, role, id, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		if errors.Is(err, usecase.ErrAttachmentTooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
			return
		}
		h.writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Attachment uploaded", attachment)
}

func (h *MedicalRecordHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrRecordNotFound):
		response.NotFound(w, "Medical record not found")
	case errors.Is(err, usecase.ErrRecordForbidden), errors.Is(err, usecase.ErrNotRecordAuthor):
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, "Failed to process medical record")
	}
}
