package converter

import (
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"

	"github.com/google/uuid"
)

// UserToResponse converts a User entity to its API view. The role field is
// the derived role: the application-assigned role wins, falling back to the
// supplied role hint, then to "patient".
func UserToResponse(user *entity.User, suppliedRole string) *dto.UserResponse {
	if user == nil {
		return nil
	}

	active := true
	if user.IsActive != nil {
		active = *user.IsActive
	}

	response := &dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          entity.ResolveRole(user.RoleName(), suppliedRole),
		AvatarURL:     user.AvatarURL,
		PhoneNumber:   user.PhoneNumber,
		EmailVerified: user.EmailVerified,
		IsActive:      active,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = DoctorProfileToResponse(user.DoctorProfile)
	}
	if user.PatientProfile != nil {
		response.PatientProfile = PatientProfileToResponse(user.PatientProfile)
	}

	return response
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i, user := range users {
		resp := UserToResponse(&user, "")
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.PatientProfileResponse{
		UserID:      profile.UserID,
		DateOfBirth: profile.DateOfBirth,
		Gender:      profile.Gender,
		Address:     profile.Address,
		BloodType:   profile.BloodType,
		Allergies:   profile.Allergies,
	}
}

func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}
	response := &dto.DoctorProfileResponse{
		UserID:         profile.UserID,
		LicenseNumber:  profile.LicenseNumber,
		Specialization: profile.Specialization,
		Department:     profile.Department,
		Biography:      profile.Biography,
	}
	if profile.User.ID != uuid.Nil {
		response.FullName = profile.User.FullName
	}
	return response
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorProfileResponse {
	responses := make([]dto.DoctorProfileResponse, len(profiles))
	for i, profile := range profiles {
		resp := DoctorProfileToResponse(&profile)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
