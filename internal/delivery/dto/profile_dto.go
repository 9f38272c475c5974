package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`

	// Patient fields
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=M F"`
	Address     *string `json:"address" validate:"omitempty"`
	BloodType   *string `json:"blood_type" validate:"omitempty,max=3"`
	Allergies   *string `json:"allergies" validate:"omitempty"`

	// Doctor fields
	Specialization *string `json:"specialization" validate:"omitempty,max=100"`
	Department     *string `json:"department" validate:"omitempty,max=100"`
	Biography      *string `json:"biography" validate:"omitempty"`
}

type PatientProfileResponse struct {
	UserID      uuid.UUID  `json:"user_id"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Address     string     `json:"address,omitempty"`
	BloodType   string     `json:"blood_type,omitempty"`
	Allergies   string     `json:"allergies,omitempty"`
}

type DoctorProfileResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	LicenseNumber  string    `json:"license_number"`
	Specialization string    `json:"specialization"`
	Department     string    `json:"department,omitempty"`
	Biography      string    `json:"biography,omitempty"`
	FullName       string    `json:"full_name,omitempty"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type DoctorListResponse struct {
	Doctors []DoctorProfileResponse `json:"doctors"`
	Total   int64                   `json:"total"`
}
