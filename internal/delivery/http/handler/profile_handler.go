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

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
	validator      *validator.CustomValidator
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase, validator *validator.CustomValidator) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		validator:      validator,
	}
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.profileUsecase.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, usecase.ErrInvalidDateFormat):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated", user)
}

// UploadAvatar stores a new avatar image for the authenticated user
// @Summary Upload avatar
// @Tags Profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing avatar file", nil)
		return
	}
	defer file.Close()

	avatar, err := h.profileUsecase.UploadAvatar(r.Context(), userID, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnsupportedAvatarType):
			response.Error(w, http.StatusBadRequest, "Unsupported avatar content type", nil)
		case errors.Is(err, usecase.ErrAvatarTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, "Avatar exceeds the maximum allowed size", nil)
		default:
			response.InternalServerError(w, "Failed to upload avatar")
		}
		return
	}

	response.Success(w, http.StatusOK, "Avatar uploaded", avatar)
}

// ListDoctors lists the doctor directory
// @Summary List doctors
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Param specialization query string false "Filter by specialization"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *ProfileHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	specialization := r.URL.Query().Get("specialization")

	doctors, err := h.profileUsecase.ListDoctors(r.Context(), specialization, limit, offset)
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Doctors retrieved", doctors, response.NewMeta(limit, offset, doctors.Total))
}
